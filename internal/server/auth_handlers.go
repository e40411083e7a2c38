package server

import (
	"hustlehub/internal/service"
	"hustlehub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	var errs validation.Errors
	if !errs.Required("full_name", req.FullName != nil) {
		return respondErr(c, errs.Err())
	}

	token, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: *req.FullName,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newTokenResponse(token))
}

// Login handles POST /auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	var errs validation.Errors
	errs.Check("email", validation.ValidateEmail(req.Email))
	errs.Required("password", req.Password != "")
	if err := errs.Err(); err != nil {
		return respondErr(c, err)
	}

	token, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(newTokenResponse(token))
}
