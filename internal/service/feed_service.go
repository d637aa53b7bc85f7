package service

import (
	"context"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"
	"pawfeed/internal/repository"
)

// Default feed sizes, matching the home page layout: one featured slot,
// a short recent rail and a small most-liked ranking.
const (
	defaultRecentLimit    = 3
	defaultMostLikedLimit = 5
	defaultTopTagsLimit   = 10
)

// FeedService answers the read-only feed queries of the home surface.
type FeedService struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
}

func NewFeedService(postRepo repository.PostRepository, tagRepo repository.TagRepository) *FeedService {
	return &FeedService{postRepo: postRepo, tagRepo: tagRepo}
}

// Featured returns the featured post or nil. Absence is a normal state, not
// an error.
func (s *FeedService) Featured(ctx context.Context, currentUserID uint) (*models.Post, error) {
	observability.FeedQueries.WithLabelValues("featured").Inc()
	return s.postRepo.Featured(ctx, currentUserID)
}

func (s *FeedService) Recent(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error) {
	observability.FeedQueries.WithLabelValues("recent").Inc()
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.postRepo.Recent(ctx, limit, currentUserID)
}

func (s *FeedService) MostLiked(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error) {
	observability.FeedQueries.WithLabelValues("most_liked").Inc()
	if limit <= 0 {
		limit = defaultMostLikedLimit
	}
	return s.postRepo.MostLiked(ctx, limit, currentUserID)
}

func (s *FeedService) TopTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	observability.FeedQueries.WithLabelValues("top_tags").Inc()
	if limit <= 0 {
		limit = defaultTopTagsLimit
	}
	return s.tagRepo.TopTags(ctx, limit)
}
