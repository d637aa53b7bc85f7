package models

import "time"

// Admin log actions. Every privileged mutation writes exactly one row.
const (
	ActionApprovePost   = "approve_post"
	ActionRejectPost    = "reject_post"
	ActionFeaturePost   = "feature_post"
	ActionUnfeaturePost = "unfeature_post"
	ActionDeletePost    = "delete_post"
	ActionChangeRole    = "change_role"
	ActionDeactivate    = "deactivate_user"
	ActionActivate      = "activate_user"
)

// AdminStats is the dashboard summary returned by the admin stats endpoint.
type AdminStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalPosts    int64 `json:"total_posts"`
	PendingPosts  int64 `json:"pending_posts"`
	ApprovedPosts int64 `json:"approved_posts"`
	RejectedPosts int64 `json:"rejected_posts"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
}

// AdminLog is an append-only audit record of a privileged action. EventID is
// a UUID assigned at write time so log shipping can dedupe across restarts.
type AdminLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    string    `gorm:"size:36;not null;uniqueIndex" json:"event_id"`
	AdminID    uint      `gorm:"not null;index" json:"admin_id"`
	Admin      User      `gorm:"foreignKey:AdminID" json:"admin"`
	Action     string    `gorm:"size:50;not null;index" json:"action"`
	TargetType string    `gorm:"size:20;not null" json:"target_type"`
	TargetID   uint      `gorm:"not null" json:"target_id"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
