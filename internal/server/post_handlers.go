package server

import (
	"pawfeed/internal/models"
	"pawfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest uses pointers for fields where an absent value and an explicit
// clear must be told apart on update.
type postRequest struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	ImageURL *string   `json:"image_url,omitempty"`
	Category string    `json:"category"`
	Tags     *[]string `json:"tags,omitempty"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	}
	var imageURL string
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: imageURL,
		Category: models.PostCategory(req.Category),
		Tags:     tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c)
	viewerID := currentUserID(c)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Status:        models.StatusApproved,
		Category:      models.PostCategory(c.Query("category")),
		Tag:           c.Query("tag"),
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: viewerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.redactForViewer(c, viewerID, posts...)
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID := currentUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.redactForViewer(c, viewerID, post)
	return c.JSON(post)
}

// GetMyPosts handles GET /api/posts/my-posts
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c)

	posts, err := s.postService.GetUserPosts(c.Context(), userID, page.Limit, page.Offset, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c)
	viewerID := currentUserID(c)

	posts, err := s.postService.GetUserPosts(c.Context(), authorID, page.Limit, page.Offset, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.redactForViewer(c, viewerID, posts...)
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   userID,
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: models.PostCategory(req.Category),
		Tags:     req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), postID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
