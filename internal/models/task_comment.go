package models

import "time"

type TaskComment struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	TaskID        uint64    `gorm:"not null;index" json:"task_id"`
	UserID        uint64    `gorm:"not null;index" json:"user_id"`
	CommentText   string    `gorm:"type:text;not null" json:"comment_text"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int       `gorm:"not null;default:0" json:"dislikes_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Task      Task             `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User      User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reactions []CommentReaction `gorm:"foreignKey:CommentID" json:"-"`
}
