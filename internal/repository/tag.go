package repository

import (
	"context"
	"math/rand"
	"strings"

	"pawfeed/internal/cache"
	"pawfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagColors is the fixed palette new tags draw from. A tag keeps the color
// it was born with; reusing the name never reassigns it.
var TagColors = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b",
	"#8b5cf6", "#ec4899", "#06b6d4", "#f97316",
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	EnsureTx(tx *gorm.DB, names []string) ([]models.Tag, error)
	ReplaceForPostTx(tx *gorm.DB, postID uint, names []string) error
	TopTags(ctx context.Context, limit int) ([]models.TagCount, error)
}

type tagRepository struct {
	db *gorm.DB
	// colorFn picks the color for a newly created tag. Injected by tests.
	colorFn func(name string) string
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{
		db: db,
		colorFn: func(string) string {
			return TagColors[rand.Intn(len(TagColors))]
		},
	}
}

// NormalizeTag trims and lower-cases a raw tag name. The normalized form is
// the identity of the tag; "Fofo" and " fofo " resolve to the same entry.
func NormalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizeSet normalizes names, drops blanks and deduplicates preserving
// first-seen order.
func normalizeSet(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := NormalizeTag(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// EnsureTx resolves each name to a tag row inside tx, creating missing ones.
// Concurrent creates of the same name are resolved by the unique index: the
// insert is ON CONFLICT DO NOTHING and the row is re-read afterwards.
func (r *tagRepository) EnsureTx(tx *gorm.DB, names []string) ([]models.Tag, error) {
	normalized := normalizeSet(names)
	tags := make([]models.Tag, 0, len(normalized))
	for _, name := range normalized {
		tag := models.Tag{Name: name, Color: r.colorFn(name)}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tag)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race or the tag already existed; the stored color wins.
			if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ReplaceForPostTx swaps the post's tag set for the given names inside tx.
// The old associations are removed wholesale; tag rows themselves are kept
// even when no post references them anymore.
func (r *tagRepository) ReplaceForPostTx(tx *gorm.DB, postID uint, names []string) error {
	tags, err := r.EnsureTx(tx, names)
	if err != nil {
		return err
	}

	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return err
	}

	for _, tag := range tags {
		if err := tx.Create(&models.PostTag{PostID: postID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

// TopTags lists tags ordered by how many posts reference them.
func (r *tagRepository) TopTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	var counts []models.TagCount
	err := cache.Aside(ctx, cache.TopTagsKey(limit), &counts, cache.TopTagsTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Tag{}).
			Select("tags.name, tags.color, COUNT(post_tags.post_id) as post_count").
			Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
			Group("tags.id, tags.name, tags.color").
			Order("post_count DESC, tags.name ASC").
			Limit(limit).
			Find(&counts).Error
	})
	return counts, err
}
