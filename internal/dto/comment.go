package dto

import (
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
)

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID            uint64          `json:"id"`
	TaskID        uint64          `json:"task_id"`
	UserID        uint64          `json:"user_id"`
	CommentText   string          `json:"comment_text"`
	LikesCount    int             `json:"likes_count"`
	DislikesCount int             `json:"dislikes_count"`
	UserReaction  string          `json:"user_reaction"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	User          *UserSummaryDTO `json:"user,omitempty"`
}

// ToCommentDTO converts a TaskComment model to CommentDTO. userReaction is
// the caller's own reaction label on this comment.
func ToCommentDTO(comment models.TaskComment, userReaction string) CommentDTO {
	dto := CommentDTO{
		ID:            comment.ID,
		TaskID:        comment.TaskID,
		UserID:        comment.UserID,
		CommentText:   comment.CommentText,
		LikesCount:    comment.LikesCount,
		DislikesCount: comment.DislikesCount,
		UserReaction:  userReaction,
		CreatedAt:     comment.CreatedAt,
		UpdatedAt:     comment.UpdatedAt,
	}

	if comment.User.ID != 0 {
		user := ToUserSummaryDTO(comment.User)
		dto.User = &user
	}

	return dto
}
