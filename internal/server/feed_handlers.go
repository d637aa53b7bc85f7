package server

import (
	"github.com/gofiber/fiber/v2"
)

// SearchPosts handles GET /api/posts/search?q=...
// A blank or whitespace-only term yields an empty result, not an error.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	q := c.Query("q")
	limit := c.QueryInt("limit", 0)
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	viewerID := currentUserID(c)

	posts, err := s.postService.SearchPosts(c.Context(), q, limit, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.redactForViewer(c, viewerID, posts...)
	return c.JSON(posts)
}

// GetFeaturedPost handles GET /api/posts/featured. With no featured post the
// endpoint returns 200 with a null body so clients can render the absence.
func (s *Server) GetFeaturedPost(c *fiber.Ctx) error {
	viewerID := currentUserID(c)

	post, err := s.feedService.Featured(c.Context(), viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if post != nil {
		s.redactForViewer(c, viewerID, post)
	}
	return c.JSON(post)
}

// GetRecentPosts handles GET /api/posts/recent
func (s *Server) GetRecentPosts(c *fiber.Ctx) error {
	viewerID := currentUserID(c)
	limit := c.QueryInt("limit", 0)
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	posts, err := s.feedService.Recent(c.Context(), limit, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.redactForViewer(c, viewerID, posts...)
	return c.JSON(posts)
}

// GetMostLikedPosts handles GET /api/posts/most-liked
func (s *Server) GetMostLikedPosts(c *fiber.Ctx) error {
	viewerID := currentUserID(c)
	limit := c.QueryInt("limit", 0)
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	posts, err := s.feedService.MostLiked(c.Context(), limit, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.redactForViewer(c, viewerID, posts...)
	return c.JSON(posts)
}

// GetTopTags handles GET /api/tags/top
func (s *Server) GetTopTags(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	tags, err := s.feedService.TopTags(c.Context(), limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tags)
}
