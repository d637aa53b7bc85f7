package service

import (
	"context"
	"errors"

	"pawfeed/internal/models"
	"pawfeed/internal/repository"

	"gorm.io/gorm"
)

// AdminService exposes user administration and the audit trail.
type AdminService struct {
	adminRepo repository.AdminRepository
	userRepo  repository.UserRepository
}

func NewAdminService(adminRepo repository.AdminRepository, userRepo repository.UserRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo, userRepo: userRepo}
}

func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.adminRepo.Stats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*models.PostCounts, error) {
	return s.adminRepo.ListUsers(ctx, limit, offset)
}

func (s *AdminService) ListLogs(ctx context.Context, limit, offset int) ([]*models.AdminLog, error) {
	return s.adminRepo.ListLogs(ctx, limit, offset)
}

// SetRole changes a user's role. Admins cannot demote themselves so the
// store can never end up without a reachable admin by accident.
func (s *AdminService) SetRole(ctx context.Context, adminID, userID uint, role models.UserRole) error {
	if !models.ValidRole(role) {
		return models.NewValidationError("Invalid role")
	}
	if adminID == userID && role != models.RoleAdmin {
		return models.NewValidationError("Admins cannot demote themselves")
	}

	if err := s.adminRepo.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", userID)
		}
		return err
	}

	return s.adminRepo.LogAction(ctx, &models.AdminLog{
		AdminID:    adminID,
		Action:     models.ActionChangeRole,
		TargetType: "user",
		TargetID:   userID,
		Details:    string(role),
	})
}

// SetActive activates or deactivates an account. Self-deactivation is
// rejected for the same reason as self-demotion.
func (s *AdminService) SetActive(ctx context.Context, adminID, userID uint, active bool) error {
	if adminID == userID && !active {
		return models.NewValidationError("Admins cannot deactivate themselves")
	}

	if err := s.adminRepo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", userID)
		}
		return err
	}

	action := models.ActionDeactivate
	if active {
		action = models.ActionActivate
	}
	return s.adminRepo.LogAction(ctx, &models.AdminLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: "user",
		TargetID:   userID,
	})
}

// IsAdmin is the role check injected into other services and middleware.
func (s *AdminService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	return s.userRepo.IsAdmin(ctx, userID)
}
