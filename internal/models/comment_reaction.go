package models

import "time"

type ReactionType string

const (
	ReactionTypeLike    ReactionType = "LIKE"
	ReactionTypeDislike ReactionType = "DISLIKE"
)

// CommentReaction records a user's single allowed reaction on a comment.
// The composite primary key enforces the at-most-one-per-pair invariant.
type CommentReaction struct {
	CommentID uint64       `gorm:"primarykey" json:"comment_id"`
	UserID    uint64       `gorm:"primarykey" json:"user_id"`
	Type      ReactionType `gorm:"type:varchar(20);not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`

	// Relations
	Comment TaskComment `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	User    User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
