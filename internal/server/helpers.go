package server

import (
	"errors"
	"strings"
	"unicode"

	"pawfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters. An absent or
// negative limit means "no limit" (-1 passes through to the store layer
// unapplied); a literal limit=0 is honored and yields an empty page.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", -1)
	if limit < -1 {
		limit = -1
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID returns the authenticated user's ID, or 0 for anonymous
// requests that passed through OptionalAuth.
func currentUserID(c *fiber.Ctx) uint {
	if userID, ok := c.Locals("userID").(uint); ok {
		return userID
	}
	return 0
}

// isAdmin satisfies middleware.RoleLookup.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	return s.adminService.IsAdmin(c.Context(), userID)
}

// respondServiceError maps service error codes to HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case models.CodeValidation:
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case models.CodeUnauthorized:
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		case models.CodeConflict:
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// redactForViewer strips moderation metadata from posts the viewer did not
// author, unless the viewer is an admin. Admin role is resolved at most once
// per call.
func (s *Server) redactForViewer(c *fiber.Ctx, viewerID uint, posts ...*models.Post) {
	adminChecked := false
	admin := false
	for _, post := range posts {
		if post == nil {
			continue
		}
		if viewerID != 0 && post.UserID == viewerID {
			continue
		}
		if viewerID != 0 && !adminChecked {
			admin, _ = s.isAdmin(c, viewerID)
			adminChecked = true
		}
		if admin {
			continue
		}
		post.RedactModeration()
	}
}
