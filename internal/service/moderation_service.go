package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pawfeed/internal/models"
	"pawfeed/internal/notifications"
	"pawfeed/internal/observability"
	"pawfeed/internal/repository"

	"gorm.io/gorm"
)

// ModerationService drives the review state machine and the featured
// singleton. Every decision is written to the audit log.
type ModerationService struct {
	postRepo  repository.PostRepository
	adminRepo repository.AdminRepository
	notifier  *notifications.Notifier
}

func NewModerationService(
	postRepo repository.PostRepository,
	adminRepo repository.AdminRepository,
	notifier *notifications.Notifier,
) *ModerationService {
	return &ModerationService{
		postRepo:  postRepo,
		adminRepo: adminRepo,
		notifier:  notifier,
	}
}

func (s *ModerationService) getPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Approve transitions the post to approved. Re-approval is allowed; it only
// refreshes the reviewer and timestamp.
func (s *ModerationService) Approve(ctx context.Context, postID, reviewerID uint) (*models.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = models.StatusApproved
	post.ReviewedByUserID = &reviewerID
	post.ReviewedAt = &now
	post.RejectionReason = ""

	if err := s.postRepo.UpdateReview(ctx, post); err != nil {
		return nil, err
	}
	observability.ModerationDecisions.WithLabelValues("approved").Inc()

	if err := s.adminRepo.LogAction(ctx, &models.AdminLog{
		AdminID:    reviewerID,
		Action:     models.ActionApprovePost,
		TargetType: "post",
		TargetID:   postID,
	}); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.PublishEvent(ctx, notifications.Event{
			Type:    notifications.EventPostApproved,
			PostID:  postID,
			UserID:  post.UserID,
			ActorID: reviewerID,
		})
	}
	return s.getPost(ctx, postID)
}

// Reject transitions the post to rejected. The reason is required and is
// validated before any storage access.
func (s *ModerationService) Reject(ctx context.Context, postID, reviewerID uint, reason string) (*models.Post, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, models.NewValidationError("rejection reason is required")
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = models.StatusRejected
	post.ReviewedByUserID = &reviewerID
	post.ReviewedAt = &now
	post.RejectionReason = reason

	if err := s.postRepo.UpdateReview(ctx, post); err != nil {
		return nil, err
	}
	observability.ModerationDecisions.WithLabelValues("rejected").Inc()

	if err := s.adminRepo.LogAction(ctx, &models.AdminLog{
		AdminID:    reviewerID,
		Action:     models.ActionRejectPost,
		TargetType: "post",
		TargetID:   postID,
		Details:    reason,
	}); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.PublishEvent(ctx, notifications.Event{
			Type:    notifications.EventPostRejected,
			PostID:  postID,
			UserID:  post.UserID,
			ActorID: reviewerID,
			Detail:  reason,
		})
	}
	return s.getPost(ctx, postID)
}

// SetFeatured promotes the post to the featured slot, or clears it. The
// promotion clears any previous holder in the same transaction.
func (s *ModerationService) SetFeatured(ctx context.Context, postID, adminID uint, featured bool) (*models.Post, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.postRepo.SetFeatured(ctx, postID, featured); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	action := models.ActionUnfeaturePost
	if featured {
		action = models.ActionFeaturePost
	}
	if err := s.adminRepo.LogAction(ctx, &models.AdminLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: "post",
		TargetID:   postID,
	}); err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if featured && s.notifier != nil {
		_ = s.notifier.PublishEvent(ctx, notifications.Event{
			Type:    notifications.EventPostFeatured,
			PostID:  postID,
			UserID:  post.UserID,
			ActorID: adminID,
		})
	}
	return post, nil
}

// ListByStatus returns posts in one moderation state, newest first. The
// status must be one of the known values.
func (s *ModerationService) ListByStatus(ctx context.Context, status models.PostStatus, limit, offset int) ([]*models.Post, error) {
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError("Invalid status")
	}
	return s.postRepo.List(ctx, repository.PostFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	}, 0)
}

// ListPending is the moderation queue.
func (s *ModerationService) ListPending(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.ListByStatus(ctx, models.StatusPending, limit, offset)
}
