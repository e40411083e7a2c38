package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListNetwork handles GET /network?mode=&skip=&limit=
func (s *Server) ListNetwork(c *fiber.Ctx) error {
	users, err := s.userService.ListNetwork(c.UserContext(), currentUser(c).ID, c.Query("mode"), parsePage(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /network/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// ListMyApplications handles GET /network/applications/my
func (s *Server) ListMyApplications(c *fiber.Ctx) error {
	apps, err := s.opportunityService.ListMyApplications(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(apps)
}
