package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"pawfeed/internal/models"
	"pawfeed/internal/notifications"
	"pawfeed/internal/observability"
	"pawfeed/internal/repository"

	"gorm.io/gorm"
)

// maxCommentLen caps comment content at 1000 code points.
const maxCommentLen = 1000

// InteractionService handles likes, follows and comments.
type InteractionService struct {
	interactionRepo repository.InteractionRepository
	postRepo        repository.PostRepository
	userRepo        repository.UserRepository
	notifier        *notifications.Notifier
}

// ToggleResult reports the post-toggle state together with the new count.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

func NewInteractionService(
	interactionRepo repository.InteractionRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		userRepo:        userRepo,
		notifier:        notifier,
	}
}

// ToggleLike flips the caller's like on the post and returns the new state
// with the updated count.
func (s *InteractionService) ToggleLike(ctx context.Context, userID, postID uint) (*ToggleResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	liked, err := s.interactionRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	state := "off"
	if liked {
		state = "on"
	}
	observability.ToggleOperations.WithLabelValues("like", state).Inc()

	count, err := s.interactionRepo.LikesCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Active: liked, Count: count}, nil
}

// ToggleFollow flips the follow edge from followerID to followingID.
// Self-follows are rejected before any state is read.
func (s *InteractionService) ToggleFollow(ctx context.Context, followerID, followingID uint) (*ToggleResult, error) {
	if followerID == followingID {
		return nil, models.NewValidationError("cannot follow self")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", followingID)
		}
		return nil, err
	}

	following, err := s.interactionRepo.ToggleFollow(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}

	state := "off"
	if following {
		state = "on"
	}
	observability.ToggleOperations.WithLabelValues("follow", state).Inc()

	if following && s.notifier != nil {
		_ = s.notifier.PublishEvent(ctx, notifications.Event{
			Type:    notifications.EventNewFollower,
			UserID:  followingID,
			ActorID: followerID,
		})
	}

	count, err := s.interactionRepo.FollowerCount(ctx, followingID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Active: following, Count: count}, nil
}

// AddComment validates and stores a comment, returning it with the author
// preloaded.
func (s *InteractionService) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	if err := s.interactionRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *InteractionService) CommentsForPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.interactionRepo.CommentsForPost(ctx, postID)
}

func (s *InteractionService) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.interactionRepo.HasLiked(ctx, userID, postID)
}

func (s *InteractionService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.interactionRepo.IsFollowing(ctx, followerID, followingID)
}
