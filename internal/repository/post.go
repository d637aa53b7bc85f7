package repository

import (
	"context"
	"errors"
	"time"

	"pawfeed/internal/cache"
	"pawfeed/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows List results. Zero values mean "no filter" for Status,
// Category and UserID. Limit -1 means unlimited; Limit 0 returns nothing.
type PostFilter struct {
	Status   models.PostStatus
	Category models.PostCategory
	UserID   uint
	Tag      string
	Limit    int
	Offset   int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagNames []string) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, f PostFilter, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error)
	MostLiked(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error)
	Featured(ctx context.Context, currentUserID uint) (*models.Post, error)
	Recent(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, tagNames []string, replaceTags bool) error
	UpdateReview(ctx context.Context, post *models.Post) error
	SetFeatured(ctx context.Context, id uint, featured bool) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[models.PostStatus]int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db   *gorm.DB
	tags TagRepository
}

// NewPostRepository creates a new post repository. The tag repository is
// used inside post transactions so post and tag writes commit together.
func NewPostRepository(db *gorm.DB, tags TagRepository) PostRepository {
	return &postRepository{db: db, tags: tags}
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked_by_me", currentUserID)
	}

	return db.Select(selectQuery)
}

func (r *postRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("ReviewedBy").Preload("Tags")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(post).Error; err != nil {
			return err
		}
		return r.tags.ReplaceForPostTx(tx, post.ID, tagNames)
	})
	if err == nil {
		cache.InvalidateFeeds(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	fetch := func() error {
		return r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
			First(&post, id).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, key, &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, f PostFilter, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID))
	if f.Status != "" {
		q = q.Where("posts.status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("posts.category = ?", f.Category)
	}
	if f.UserID != 0 {
		q = q.Where("posts.user_id = ?", f.UserID)
	}
	if f.Tag != "" {
		q = q.Where(
			"EXISTS(SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id "+
				"WHERE post_tags.post_id = posts.id AND tags.name = ?)",
			NormalizeTag(f.Tag),
		)
	}
	err := q.Order("posts.created_at DESC, posts.id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Search matches the query against title, content and tag names,
// case-insensitively. Only approved posts are searchable.
func (r *postRepository) Search(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + NormalizeTag(query) + "%"
	err := r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Where("posts.status = ?", models.StatusApproved).
		Where(
			"LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR EXISTS("+
				"SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id "+
				"WHERE post_tags.post_id = posts.id AND tags.name LIKE ?)",
			like, like, like,
		).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// MostLiked returns posts ordered by like count. Posts with zero likes are
// excluded; an empty result is valid when nothing has been liked yet.
func (r *postRepository) MostLiked(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Where("(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) > 0").
		Order("likes_count DESC, posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Featured returns the current featured post, or nil when none is set.
func (r *postRepository) Featured(ctx context.Context, currentUserID uint) (*models.Post, error) {
	var post models.Post
	fetch := func() error {
		return r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
			Where("posts.is_featured = ?", true).
			First(&post).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.FeaturedKey, &post, cache.FeaturedTTL, fetch)
	} else {
		err = fetch()
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Recent returns the newest approved posts, excluding the featured one so
// the two rails of the home feed never show the same post twice.
func (r *postRepository) Recent(ctx context.Context, limit int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	fetch := func() error {
		return r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
			Where("posts.status = ? AND posts.is_featured = ?", models.StatusApproved, false).
			Order("posts.created_at DESC, posts.id DESC").
			Limit(limit).
			Find(&posts).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.RecentKey(limit), &posts, cache.RecentTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, tagNames []string, replaceTags bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "User", "ReviewedBy").Save(post).Error; err != nil {
			return err
		}
		if replaceTags {
			return r.tags.ReplaceForPostTx(tx, post.ID, tagNames)
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
		cache.InvalidateFeeds(ctx)
	}
	return err
}

// UpdateReview persists only the moderation columns of the post.
func (r *postRepository) UpdateReview(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Select("status", "reviewed_by_user_id", "reviewed_at", "rejection_reason").
		Updates(map[string]any{
			"status":              post.Status,
			"reviewed_by_user_id": post.ReviewedByUserID,
			"reviewed_at":         post.ReviewedAt,
			"rejection_reason":    post.RejectionReason,
		}).Error
	if err == nil {
		cache.InvalidatePost(ctx, post.ID)
		cache.InvalidateFeeds(ctx)
	}
	return err
}

// SetFeatured makes the post the store-wide featured singleton, or clears
// the flag. Featuring clears every other featured post in the same
// transaction so at most one post ever carries the flag.
func (r *postRepository) SetFeatured(ctx context.Context, id uint, featured bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !featured {
			return tx.Model(&models.Post{}).
				Where("id = ?", id).
				Updates(map[string]any{"is_featured": false, "featured_at": nil}).Error
		}

		if err := tx.Model(&models.Post{}).
			Where("is_featured = ?", true).
			Updates(map[string]any{"is_featured": false, "featured_at": nil}).Error; err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Post{}).
			Where("id = ?", id).
			Updates(map[string]any{"is_featured": true, "featured_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, id)
		cache.InvalidateFeeds(ctx)
	}
	return err
}

// Delete removes the post together with its likes, comments and tag
// associations in one transaction. Tag rows are kept for future reuse.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err == nil {
		cache.InvalidatePost(ctx, id)
		cache.InvalidateFeeds(ctx)
	}
	return err
}

func (r *postRepository) CountByStatus(ctx context.Context) (map[models.PostStatus]int64, error) {
	type row struct {
		Status models.PostStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.PostStatus]int64{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
