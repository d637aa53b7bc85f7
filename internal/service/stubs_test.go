package service

import (
	"context"
	"errors"
	"testing"

	"pawfeed/internal/models"
	"pawfeed/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post, []string) error
	getByIDFn       func(context.Context, uint, uint) (*models.Post, error)
	listFn          func(context.Context, repository.PostFilter, uint) ([]*models.Post, error)
	searchFn        func(context.Context, string, int, uint) ([]*models.Post, error)
	mostLikedFn     func(context.Context, int, uint) ([]*models.Post, error)
	featuredFn      func(context.Context, uint) (*models.Post, error)
	recentFn        func(context.Context, int, uint) ([]*models.Post, error)
	updateFn        func(context.Context, *models.Post, []string, bool) error
	updateReviewFn  func(context.Context, *models.Post) error
	setFeaturedFn   func(context.Context, uint, bool) error
	deleteFn        func(context.Context, uint) error
	countByStatusFn func(context.Context) (map[models.PostStatus]int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	return s.createFn(ctx, post, tagNames)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, f, currentUserID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, currentUserID)
}
func (s *postRepoStub) MostLiked(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error) {
	return s.mostLikedFn(ctx, limit, currentUserID)
}
func (s *postRepoStub) Featured(ctx context.Context, currentUserID uint) (*models.Post, error) {
	return s.featuredFn(ctx, currentUserID)
}
func (s *postRepoStub) Recent(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error) {
	return s.recentFn(ctx, limit, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post, tagNames []string, replaceTags bool) error {
	return s.updateFn(ctx, post, tagNames, replaceTags)
}
func (s *postRepoStub) UpdateReview(ctx context.Context, post *models.Post) error {
	return s.updateReviewFn(ctx, post)
}
func (s *postRepoStub) SetFeatured(ctx context.Context, id uint, featured bool) error {
	return s.setFeaturedFn(ctx, id, featured)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) CountByStatus(ctx context.Context) (map[models.PostStatus]int64, error) {
	return s.countByStatusFn(ctx)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		searchFn:        func(_ context.Context, _ string, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		mostLikedFn:     func(_ context.Context, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		featuredFn:      func(_ context.Context, _ uint) (*models.Post, error) { return nil, nil },
		recentFn:        func(_ context.Context, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Post, _ []string, _ bool) error { return nil },
		updateReviewFn:  func(_ context.Context, _ *models.Post) error { return nil },
		setFeaturedFn:   func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		countByStatusFn: func(_ context.Context) (map[models.PostStatus]int64, error) { return nil, nil },
	}
}

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	toggleLikeFn      func(context.Context, uint, uint) (bool, error)
	hasLikedFn        func(context.Context, uint, uint) (bool, error)
	likesCountFn      func(context.Context, uint) (int64, error)
	toggleFollowFn    func(context.Context, uint, uint) (bool, error)
	isFollowingFn     func(context.Context, uint, uint) (bool, error)
	followerCountFn   func(context.Context, uint) (int64, error)
	addCommentFn      func(context.Context, *models.Comment) error
	commentsForPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *interactionRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *interactionRepoStub) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.hasLikedFn(ctx, userID, postID)
}
func (s *interactionRepoStub) LikesCount(ctx context.Context, postID uint) (int64, error) {
	return s.likesCountFn(ctx, postID)
}
func (s *interactionRepoStub) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.toggleFollowFn(ctx, followerID, followingID)
}
func (s *interactionRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *interactionRepoStub) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	return s.followerCountFn(ctx, userID)
}
func (s *interactionRepoStub) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *interactionRepoStub) CommentsForPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentsForPostFn(ctx, postID)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		toggleLikeFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		hasLikedFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likesCountFn:      func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		toggleFollowFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn:     func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followerCountFn:   func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		addCommentFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		commentsForPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	updateFn     func(context.Context, *models.User) error
	isAdminFn    func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	return s.isAdminFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		isAdminFn:    func(_ context.Context, _ uint) (bool, error) { return false, nil },
	}
}

// adminRepoStub is a stub for repository.AdminRepository.
type adminRepoStub struct {
	logActionFn func(context.Context, *models.AdminLog) error
	listLogsFn  func(context.Context, int, int) ([]*models.AdminLog, error)
	statsFn     func(context.Context) (*models.AdminStats, error)
	listUsersFn func(context.Context, int, int) ([]*models.PostCounts, error)
	setRoleFn   func(context.Context, uint, models.UserRole) error
	setActiveFn func(context.Context, uint, bool) error
}

func (s *adminRepoStub) LogAction(ctx context.Context, entry *models.AdminLog) error {
	return s.logActionFn(ctx, entry)
}
func (s *adminRepoStub) ListLogs(ctx context.Context, limit, offset int) ([]*models.AdminLog, error) {
	return s.listLogsFn(ctx, limit, offset)
}
func (s *adminRepoStub) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.statsFn(ctx)
}
func (s *adminRepoStub) ListUsers(ctx context.Context, limit, offset int) ([]*models.PostCounts, error) {
	return s.listUsersFn(ctx, limit, offset)
}
func (s *adminRepoStub) SetRole(ctx context.Context, userID uint, role models.UserRole) error {
	return s.setRoleFn(ctx, userID, role)
}
func (s *adminRepoStub) SetActive(ctx context.Context, userID uint, active bool) error {
	return s.setActiveFn(ctx, userID, active)
}

func noopAdminRepo() *adminRepoStub {
	return &adminRepoStub{
		logActionFn: func(_ context.Context, _ *models.AdminLog) error { return nil },
		listLogsFn:  func(_ context.Context, _, _ int) ([]*models.AdminLog, error) { return nil, nil },
		statsFn:     func(_ context.Context) (*models.AdminStats, error) { return &models.AdminStats{}, nil },
		listUsersFn: func(_ context.Context, _, _ int) ([]*models.PostCounts, error) { return nil, nil },
		setRoleFn:   func(_ context.Context, _ uint, _ models.UserRole) error { return nil },
		setActiveFn: func(_ context.Context, _ uint, _ bool) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
