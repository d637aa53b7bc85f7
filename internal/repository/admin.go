package repository

import (
	"context"

	"pawfeed/internal/cache"
	"pawfeed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRepository defines the interface for audit logging and admin queries.
type AdminRepository interface {
	LogAction(ctx context.Context, entry *models.AdminLog) error
	ListLogs(ctx context.Context, limit, offset int) ([]*models.AdminLog, error)
	Stats(ctx context.Context) (*models.AdminStats, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.PostCounts, error)
	SetRole(ctx context.Context, userID uint, role models.UserRole) error
	SetActive(ctx context.Context, userID uint, active bool) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// LogAction appends an audit record. The event ID is assigned here so every
// write path gets one without thinking about it.
func (r *adminRepository) LogAction(ctx context.Context, entry *models.AdminLog) error {
	if entry.EventID == "" {
		entry.EventID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *adminRepository) ListLogs(ctx context.Context, limit, offset int) ([]*models.AdminLog, error) {
	var logs []*models.AdminLog
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}

func (r *adminRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Where("status = ?", models.StatusPending).Count(&stats.PendingPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Where("status = ?", models.StatusApproved).Count(&stats.ApprovedPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Where("status = ?", models.StatusRejected).Count(&stats.RejectedPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Like{}).Count(&stats.TotalLikes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Count(&stats.TotalComments).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *adminRepository) ListUsers(ctx context.Context, limit, offset int) ([]*models.PostCounts, error) {
	var users []*models.PostCounts
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, " +
			"(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id) as posts_count, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.user_id = users.id) as comments_count").
		Order("users.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *adminRepository) SetRole(ctx context.Context, userID uint, role models.UserRole) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

func (r *adminRepository) SetActive(ctx context.Context, userID uint, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}
