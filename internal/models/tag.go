package models

import "time"

// Tag is a vocabulary entry. Names are stored normalized (trimmed,
// lower-cased); the color is assigned once at first creation and is never
// changed by later reuse of the name.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Color     string    `gorm:"size:9;not null" json:"color"`
	CreatedAt time.Time `json:"-"`
}

// PostTag is the post↔tag association row, unique per pair. The association
// set for a post is fully replaced on every update that supplies a tag list.
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName keeps the join table name aligned with the many2many tag on Post.
func (PostTag) TableName() string {
	return "post_tags"
}

// TagCount is a tag together with the number of posts referencing it.
type TagCount struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	PostCount int64  `json:"post_count"`
}
