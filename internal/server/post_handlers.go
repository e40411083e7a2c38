package server

import (
	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	post, err := s.postService.CreatePost(c.UserContext(), currentUser(c).ID, req.Content)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ListPosts handles GET /posts?skip=&limit=
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(), parsePage(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	post, err := s.postService.UpdatePost(c.UserContext(), currentUser(c).ID, id, req.Content)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), currentUser(c).ID, id); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.LikePost(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(post)
}
