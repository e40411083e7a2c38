package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// UpdateMyProfile handles PUT /profile/me. Only fields present in the body change.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), currentUser(c).ID, req.patch())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// SetMode handles POST /profile/mode
func (s *Server) SetMode(c *fiber.Ctx) error {
	var req modeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.SetMode(c.UserContext(), currentUser(c).ID, req.Mode)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// GetMyFeatureFlags handles GET /profile/features: every configured flag evaluated for the caller.
func (s *Server) GetMyFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags":     s.featureFlags.Names(),
		"evaluated": s.featureFlags.Snapshot(currentUser(c).ID),
	})
}
