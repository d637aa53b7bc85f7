// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents a user's authorization level.
type UserRole string

const (
	// RoleUser is the default role for new accounts.
	RoleUser UserRole = "user"
	// RoleEditor marks trusted authors; editors have no extra rights in the
	// core but are a distinct tier for admin bookkeeping.
	RoleEditor UserRole = "editor"
	// RoleAdmin grants moderation and administration rights.
	RoleAdmin UserRole = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account in the Pawfeed application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      UserRole       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	AvatarURL string         `json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PostCounts is a projection of a user with authored-content counters,
// used by the admin user listing.
type PostCounts struct {
	User
	PostsCount    int64 `gorm:"->" json:"posts_count"`
	CommentsCount int64 `gorm:"->" json:"comments_count"`
}
