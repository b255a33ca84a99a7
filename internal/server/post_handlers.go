package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /api/blogs. Only published posts are returned;
// sort accepts latest (default), oldest, and popular.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	sort := c.Query("sort")
	viewerID, _ := s.optionalUserID(c)

	page, err := s.postService.ListPosts(c.Context(), sort, p.Page, p.Limit, viewerID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/blogs/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, viewerID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/blogs. New posts enter the moderation queue
// in pending status.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input service.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), userID, input)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ToggleLike handles POST /api/blogs/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	result, err := s.postService.ToggleLike(c.Context(), id, userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(result)
}
