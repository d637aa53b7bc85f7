package server

import (
	"pawfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats handles GET /api/admin/stats
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(stats)
}

// GetAdminUsers handles GET /api/admin/users
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	page := parsePagination(c)

	users, err := s.adminService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetAdminLogs handles GET /api/admin/logs
func (s *Server) GetAdminLogs(c *fiber.Ctx) error {
	page := parsePagination(c)

	logs, err := s.adminService.ListLogs(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(logs)
}

// SetUserRole handles PUT /api/admin/users/:id/role
func (s *Server) SetUserRole(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.adminService.SetRole(c.Context(), adminID, userID, models.UserRole(req.Role)); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"id": userID, "role": req.Role})
}

// SetUserActive handles PUT /api/admin/users/:id/active
func (s *Server) SetUserActive(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Active bool `json:"active"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.adminService.SetActive(c.Context(), adminID, userID, req.Active); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"id": userID, "is_active": req.Active})
}
