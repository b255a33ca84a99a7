package models

import (
	"time"

	"gorm.io/gorm"
)

// Moderation statuses a post moves through. Every post starts out pending;
// rejected and hidden are terminal (no appeal transition exists).
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
	StatusHidden    = "hidden"
)

// AllStatuses lists every valid moderation status.
var AllStatuses = []string{StatusPending, StatusPublished, StatusRejected, StatusHidden}

// ValidStatus reports whether s is one of the four moderation statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected, StatusHidden:
		return true
	}
	return false
}

// Post represents a blog post in the Inkwell application.
// The author reference is immutable after creation; Status drives public
// visibility and which moderation transitions are legal.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Status  string `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	// RejectionReason is optional moderator-supplied context, set only on reject.
	RejectionReason string `json:"rejection_reason,omitempty"`
	// PublishedAt is set exactly once, at the pending->published transition.
	PublishedAt *time.Time `json:"published_at,omitempty"`
	// CommentsCount is maintained by the comments subsystem, not mutated here.
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`
	// LikesCount is not persisted; derived from the likes table at query time.
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed).
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
