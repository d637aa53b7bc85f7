package repository

import (
	"context"

	"pawfeed/internal/cache"
	"pawfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository defines the interface for like, follow and comment
// data operations.
type InteractionRepository interface {
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	HasLiked(ctx context.Context, userID, postID uint) (bool, error)
	LikesCount(ctx context.Context, postID uint) (int64, error)
	ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	FollowerCount(ctx context.Context, userID uint) (int64, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	CommentsForPost(ctx context.Context, postID uint) ([]*models.Comment, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// ToggleLike flips the like state for (userID, postID) and returns the new
// state. The insert is ON CONFLICT DO NOTHING against the unique pair index,
// so two concurrent toggles serialize on the constraint instead of racing a
// read-then-write.
func (r *interactionRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	like := models.Like{UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoNothing: true,
	}).Create(&like)
	if res.Error != nil {
		return false, res.Error
	}

	if res.RowsAffected == 1 {
		cache.InvalidatePost(ctx, postID)
		return true, nil
	}

	// The row already existed, so this toggle is an unlike.
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return false, err
	}
	cache.InvalidatePost(ctx, postID)
	return false, nil
}

func (r *interactionRepository) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *interactionRepository) LikesCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// ToggleFollow flips the follow edge and returns the new state, using the
// same insert-on-conflict pattern as ToggleLike.
func (r *interactionRepository) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(&follow)
	if res.Error != nil {
		return false, res.Error
	}

	if res.RowsAffected == 1 {
		cache.InvalidateUser(ctx, followingID)
		return true, nil
	}

	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return false, err
	}
	cache.InvalidateUser(ctx, followingID)
	return false, nil
}

func (r *interactionRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *interactionRepository) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *interactionRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return r.db.WithContext(ctx).Preload("User").First(comment, comment.ID).Error
}

// CommentsForPost returns the post's comments oldest first.
func (r *interactionRepository) CommentsForPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
