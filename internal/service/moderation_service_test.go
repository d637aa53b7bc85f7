package service

import (
	"context"
	"testing"

	"pawfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestModerationService_Approve(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 3, Status: models.StatusPending}, nil
	}
	var reviewed *models.Post
	posts.updateReviewFn = func(_ context.Context, p *models.Post) error {
		reviewed = p
		return nil
	}
	admins := noopAdminRepo()
	var logged *models.AdminLog
	admins.logActionFn = func(_ context.Context, entry *models.AdminLog) error {
		logged = entry
		return nil
	}
	svc := NewModerationService(posts, admins, nil)

	_, err := svc.Approve(context.Background(), 5, 9)
	require.NoError(t, err)

	require.NotNil(t, reviewed)
	assert.Equal(t, models.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedByUserID)
	assert.EqualValues(t, 9, *reviewed.ReviewedByUserID)
	assert.NotNil(t, reviewed.ReviewedAt)
	assert.Empty(t, reviewed.RejectionReason)

	require.NotNil(t, logged)
	assert.Equal(t, models.ActionApprovePost, logged.Action)
	assert.EqualValues(t, 5, logged.TargetID)
}

func TestModerationService_Approve_NotFound(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewModerationService(posts, noopAdminRepo(), nil)

	_, err := svc.Approve(context.Background(), 99, 1)
	assertNotFoundError(t, err)
}

func TestModerationService_Reject_RequiresReason(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	touched := false
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		touched = true
		return &models.Post{ID: id}, nil
	}
	svc := NewModerationService(posts, noopAdminRepo(), nil)

	for _, reason := range []string{"", "   ", "\t"} {
		_, err := svc.Reject(context.Background(), 5, 9, reason)
		assertValidationError(t, err)
	}
	assert.False(t, touched, "reason must be validated before storage access")
}

func TestModerationService_Reject(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 3, Status: models.StatusPending}, nil
	}
	var reviewed *models.Post
	posts.updateReviewFn = func(_ context.Context, p *models.Post) error {
		reviewed = p
		return nil
	}
	admins := noopAdminRepo()
	var logged *models.AdminLog
	admins.logActionFn = func(_ context.Context, entry *models.AdminLog) error {
		logged = entry
		return nil
	}
	svc := NewModerationService(posts, admins, nil)

	_, err := svc.Reject(context.Background(), 5, 9, "duplicate")
	require.NoError(t, err)

	require.NotNil(t, reviewed)
	assert.Equal(t, models.StatusRejected, reviewed.Status)
	assert.Equal(t, "duplicate", reviewed.RejectionReason)

	require.NotNil(t, logged)
	assert.Equal(t, models.ActionRejectPost, logged.Action)
	assert.Equal(t, "duplicate", logged.Details)
}

func TestModerationService_SetFeatured_LogsAction(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, Status: models.StatusApproved}, nil
	}
	admins := noopAdminRepo()
	var actions []string
	admins.logActionFn = func(_ context.Context, entry *models.AdminLog) error {
		actions = append(actions, entry.Action)
		return nil
	}
	svc := NewModerationService(posts, admins, nil)

	_, err := svc.SetFeatured(context.Background(), 5, 9, true)
	require.NoError(t, err)
	_, err = svc.SetFeatured(context.Background(), 5, 9, false)
	require.NoError(t, err)

	assert.Equal(t, []string{models.ActionFeaturePost, models.ActionUnfeaturePost}, actions)
}

func TestModerationService_ListByStatus_Validation(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(noopPostRepo(), noopAdminRepo(), nil)
	_, err := svc.ListByStatus(context.Background(), "banana", -1, 0)
	assertValidationError(t, err)
}
