// Package service contains the business logic of the application.
package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"pawfeed/internal/models"
	"pawfeed/internal/notifications"
	"pawfeed/internal/repository"

	"gorm.io/gorm"
)

const maxTitleLen = 255

// PostService owns the author-facing post lifecycle: create, read, update,
// delete. Moderation transitions live in ModerationService.
type PostService struct {
	postRepo repository.PostRepository
	notifier *notifications.Notifier
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
	Category models.PostCategory
	Tags     []string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL *string
	Category models.PostCategory
	Tags     *[]string
}

type ListPostsInput struct {
	Status        models.PostStatus
	Category      models.PostCategory
	UserID        uint
	Tag           string
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	notifier *notifications.Notifier,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		notifier: notifier,
		isAdmin:  isAdmin,
	}
}

func validatePostFields(title, content string, category models.PostCategory, imageURL string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 255 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if !models.ValidCategory(category) {
		return models.NewValidationError("Invalid category")
	}
	if imageURL != "" {
		if _, err := url.ParseRequestURI(imageURL); err != nil {
			return models.NewValidationError("image_url must be a valid URL")
		}
	}
	return nil
}

// CreatePost validates the payload and stores the post in pending status.
// Tags attach in the same transaction as the post row.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content, in.Category, in.ImageURL); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   in.UserID,
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Category: in.Category,
		Status:   models.StatusPending,
	}
	if err := s.postRepo.Create(ctx, post, in.Tags); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.PublishEvent(ctx, notifications.Event{
			Type:    notifications.EventPostSubmitted,
			PostID:  post.ID,
			ActorID: in.UserID,
		})
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost fetches one post with counts for the viewer. Moderation metadata
// stays on the returned struct; the handler layer redacts it for viewers
// who are neither the author nor an admin.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, models.NewValidationError("Invalid status filter")
	}
	if in.Category != "" && !models.ValidCategory(in.Category) {
		return nil, models.NewValidationError("Invalid category filter")
	}

	return s.postRepo.List(ctx, repository.PostFilter{
		Status:   in.Status,
		Category: in.Category,
		UserID:   in.UserID,
		Tag:      in.Tag,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}, in.CurrentUserID)
}

// SearchPosts trims the term and returns an empty slice, not an error, when
// nothing is left to search for.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Post{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.postRepo.Search(ctx, query, limit, currentUserID)
}

// canModify reports whether userID may mutate the post: the owner always
// can, an admin can for any post.
func (s *PostService) canModify(ctx context.Context, post *models.Post, userID uint) (bool, error) {
	if post.UserID == userID {
		return true, nil
	}
	if s.isAdmin == nil {
		return false, nil
	}
	return s.isAdmin(ctx, userID)
}

// UpdatePost replaces the mutable fields of the post. Editing never resets
// moderation status. The pointer fields distinguish "absent" from "clear":
// a nil Tags pointer leaves the existing set alone, a nil ImageURL keeps
// the current image while an empty string removes it.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canModify(ctx, post, in.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	if in.Category != "" {
		post.Category = in.Category
	}
	if err := validatePostFields(post.Title, post.Content, post.Category, post.ImageURL); err != nil {
		return nil, err
	}

	var tags []string
	replaceTags := in.Tags != nil
	if replaceTags {
		tags = *in.Tags
	}
	if err := s.postRepo.Update(ctx, post, tags, replaceTags); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.GetPost(ctx, postID, userID)
	if err != nil {
		return err
	}

	allowed, err := s.canModify(ctx, post, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.PublishEvent(ctx, notifications.Event{
			Type:    notifications.EventPostDeleted,
			PostID:  postID,
			ActorID: userID,
		})
	}
	return nil
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, repository.PostFilter{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	}, currentUserID)
}
