// Package models contains data structures for the application's domain models.
package models

import "time"

// PostCategory is the closed set of content categories. The set is fixed at
// build time; it is not user-configurable.
type PostCategory string

const (
	// CategoryCats is the cat content category.
	CategoryCats PostCategory = "Gatos"
	// CategoryDogs is the dog content category.
	CategoryDogs PostCategory = "Cachorros"
)

// ValidCategory reports whether c is part of the closed category set.
func ValidCategory(c PostCategory) bool {
	return c == CategoryCats || c == CategoryDogs
}

// PostStatus is the moderation state of a post.
type PostStatus string

const (
	// StatusPending indicates the post is awaiting review.
	StatusPending PostStatus = "pending"
	// StatusApproved indicates the post passed review and is publicly visible.
	StatusApproved PostStatus = "approved"
	// StatusRejected indicates the post was declined with a reason.
	StatusRejected PostStatus = "rejected"
)

// ValidStatus reports whether s is a known moderation status.
func ValidStatus(s PostStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Post represents an authored piece of content subject to moderation.
//
// LikesCount, CommentsCount and LikedByMe are never persisted; every read
// path computes them from the current likes/comments rows so they cannot
// drift. Tags are loaded through the post_tags join table.
type Post struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	UserID   uint         `gorm:"not null;index" json:"user_id"`
	User     User         `gorm:"foreignKey:UserID" json:"user"`
	Title    string       `gorm:"size:255;not null" json:"title"`
	Content  string       `gorm:"type:text;not null" json:"content"`
	ImageURL string       `json:"image_url"`
	Category PostCategory `gorm:"type:varchar(20);not null;index" json:"category"`

	Status           PostStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedByUserID *uint      `json:"reviewed_by,omitempty"`
	ReviewedBy       *User      `gorm:"foreignKey:ReviewedByUserID" json:"reviewer,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`

	// IsFeatured is a store-wide singleton: at most one post carries it.
	IsFeatured bool       `gorm:"not null;default:false;index" json:"is_featured"`
	FeaturedAt *time.Time `json:"featured_at,omitempty"`

	Tags []Tag `gorm:"many2many:post_tags" json:"tags"`

	LikesCount    int  `gorm:"->" json:"likes_count"`
	CommentsCount int  `gorm:"->" json:"comments_count"`
	LikedByMe     bool `gorm:"->" json:"is_liked_by_me"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedactModeration clears review metadata that only the author, the
// reviewer or an admin may see.
func (p *Post) RedactModeration() {
	p.ReviewedByUserID = nil
	p.ReviewedBy = nil
	p.ReviewedAt = nil
	p.RejectionReason = ""
}
