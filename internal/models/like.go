package models

import "time"

// Like records that a user liked a post. The (user, post) pair is unique;
// existence of the row is the liked state, there is no "unliked" record.
// Likes are hard-deleted so row counts always equal the visible count.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
