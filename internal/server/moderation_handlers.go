package server

import (
	"pawfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPendingPosts handles GET /api/posts/pending
func (s *Server) GetPendingPosts(c *fiber.Ctx) error {
	page := parsePagination(c)

	posts, err := s.moderationService.ListPending(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPostsByStatus handles GET /api/posts/by-status/:status
func (s *Server) GetPostsByStatus(c *fiber.Ctx) error {
	status := models.PostStatus(c.Params("status"))
	page := parsePagination(c)

	posts, err := s.moderationService.ListByStatus(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// ApprovePost handles POST /api/posts/:id/approve
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	reviewerID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.Approve(c.Context(), postID, reviewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// RejectPost handles POST /api/posts/:id/reject
func (s *Server) RejectPost(c *fiber.Ctx) error {
	reviewerID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.moderationService.Reject(c.Context(), postID, reviewerID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// SetFeaturedPost handles PUT /api/posts/:id/featured
func (s *Server) SetFeaturedPost(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Featured bool `json:"featured"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.moderationService.SetFeatured(c.Context(), postID, adminID, req.Featured)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}
