package repository

import (
	"context"
	"testing"

	"pawfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdminRepository_LogActionAssignsEventID(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewAdminRepository(db)
	admin := seedUser(t, db, models.RoleAdmin)
	ctx := context.Background()

	entry := &models.AdminLog{
		AdminID:    admin.ID,
		Action:     models.ActionApprovePost,
		TargetType: "post",
		TargetID:   1,
	}
	require.NoError(t, repo.LogAction(ctx, entry))
	assert.Len(t, entry.EventID, 36)

	logs, err := repo.ListLogs(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionApprovePost, logs[0].Action)
	assert.Equal(t, admin.Name, logs[0].Admin.Name)
}

func TestAdminRepository_Stats(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewAdminRepository(db)
	user := seedUser(t, db, models.RoleUser)
	ctx := context.Background()

	seedPost(t, db, user.ID, models.StatusApproved)
	seedPost(t, db, user.ID, models.StatusPending)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalUsers)
	assert.EqualValues(t, 2, stats.TotalPosts)
	assert.EqualValues(t, 1, stats.PendingPosts)
	assert.EqualValues(t, 1, stats.ApprovedPosts)
	assert.EqualValues(t, 0, stats.RejectedPosts)
}

func TestAdminRepository_SetRoleAndActive(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewAdminRepository(db)
	users := NewUserRepository(db)
	user := seedUser(t, db, models.RoleUser)
	ctx := context.Background()

	require.NoError(t, repo.SetRole(ctx, user.ID, models.RoleAdmin))
	isAdmin, err := users.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	// Deactivated admins lose their privileges.
	require.NoError(t, repo.SetActive(ctx, user.ID, false))
	isAdmin, err = users.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	assert.ErrorIs(t, repo.SetRole(ctx, 9999, models.RoleEditor), gorm.ErrRecordNotFound)
}
