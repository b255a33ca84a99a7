package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminListPosts handles GET /api/admin/blogs. Posts of every status are
// visible; an optional status query filters, and unknown values are ignored.
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	status := c.Query("status")

	page, err := s.moderationService.ListPosts(c.Context(), status, p.Page, p.Limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(page)
}

// AdminListPending handles GET /api/admin/blogs/pending, the moderation queue.
func (s *Server) AdminListPending(c *fiber.Ctx) error {
	p := parsePagination(c)

	page, err := s.moderationService.ListPosts(c.Context(), models.StatusPending, p.Page, p.Limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(page)
}

// ApprovePost handles POST /api/admin/blogs/:id/approve
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.Approve(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// RejectRequest optionally carries the moderator's reason for rejecting.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// RejectPost handles POST /api/admin/blogs/:id/reject
func (s *Server) RejectPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// The body is optional; rejecting without a reason is allowed.
	var req RejectRequest
	_ = c.BodyParser(&req)

	post, err := s.moderationService.Reject(c.Context(), id, req.Reason)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// HidePost handles POST /api/admin/blogs/:id/hide
func (s *Server) HidePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.Hide(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/admin/blogs/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.Delete(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted", "post": post})
}

// AdminStats handles GET /api/admin/stats
func (s *Server) AdminStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.GetStats(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(stats)
}
