package server

import (
	"github.com/gofiber/fiber/v2"
)

// CreateOpportunity handles POST /opportunities
func (s *Server) CreateOpportunity(c *fiber.Ctx) error {
	var req opportunityRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	in, err := req.input()
	if err != nil {
		return respondErr(c, err)
	}

	opp, err := s.opportunityService.CreateOpportunity(c.UserContext(), currentUser(c), in)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(opp)
}

// ListOpportunities handles GET /opportunities?status=&skip=&limit=
func (s *Server) ListOpportunities(c *fiber.Ctx) error {
	opps, err := s.opportunityService.ListOpportunities(c.UserContext(), c.Query("status"), parsePage(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(opps)
}

// GetOpportunity handles GET /opportunities/:id
func (s *Server) GetOpportunity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	opp, err := s.opportunityService.GetOpportunity(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(opp)
}

// UpdateOpportunity handles PUT /opportunities/:id
func (s *Server) UpdateOpportunity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req opportunityRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	in, err := req.input()
	if err != nil {
		return respondErr(c, err)
	}

	opp, err := s.opportunityService.UpdateOpportunity(c.UserContext(), currentUser(c).ID, id, in)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(opp)
}

// DeleteOpportunity handles DELETE /opportunities/:id
func (s *Server) DeleteOpportunity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.opportunityService.DeleteOpportunity(c.UserContext(), currentUser(c).ID, id); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Apply handles POST /opportunities/:id/apply
func (s *Server) Apply(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req applicationRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	app, err := s.opportunityService.Apply(c.UserContext(), currentUser(c), id, req.Message)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

// ListApplicationsForOpportunity handles GET /opportunities/:id/applications
func (s *Server) ListApplicationsForOpportunity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	apps, err := s.opportunityService.ListApplicationsForOpportunity(c.UserContext(), currentUser(c).ID, id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(apps)
}

// ListMyCreatedOpportunityApplications handles GET /opportunities/my-applications
func (s *Server) ListMyCreatedOpportunityApplications(c *fiber.Ctx) error {
	apps, err := s.opportunityService.ListMyCreatedOpportunityApplications(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(apps)
}

// SetApplicationStatus handles PUT /opportunities/applications/:id/status.
// The new status comes from the "status" body field, or the new_status query parameter.
func (s *Server) SetApplicationStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req statusRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}
	status := req.Status
	if status == "" {
		status = c.Query("new_status")
	}

	app, err := s.opportunityService.SetApplicationStatus(c.UserContext(), currentUser(c).ID, id, status)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(app)
}
