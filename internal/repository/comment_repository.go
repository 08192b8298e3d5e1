package repository

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// CreateComment creates a new comment
func (r *GormCommentRepository) CreateComment(comment *models.TaskComment) error {
	return r.db.Create(comment).Error
}

// FindCommentByID finds a comment by ID
func (r *GormCommentRepository) FindCommentByID(id uint64) (*models.TaskComment, error) {
	var comment models.TaskComment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask lists a task's comments, newest first
func (r *GormCommentRepository) ListByTask(taskID uint64) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	if err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindReaction finds the user's reaction on a comment
func (r *GormCommentRepository) FindReaction(commentID, userID uint64) (*models.CommentReaction, error) {
	var reaction models.CommentReaction
	if err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

// ApplyReactionChange writes a toggle outcome in one transaction: the
// reaction row is created, retyped or removed, and the comment counters are
// updated with a floor of zero. Concurrent conflicting inserts on the
// (comment, user) primary key surface as gorm.ErrDuplicatedKey for the
// service to report a retryable conflict.
func (r *GormCommentRepository) ApplyReactionChange(commentID, userID uint64, change ReactionChange) (*models.TaskComment, error) {
	var updated models.TaskComment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if change.Set == nil {
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&models.CommentReaction{}).Error; err != nil {
				return err
			}
		} else {
			var existing models.CommentReaction
			err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				First(&existing).Error
			switch {
			case err == nil:
				existing.Type = *change.Set
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case err == gorm.ErrRecordNotFound:
				reaction := models.CommentReaction{
					CommentID: commentID,
					UserID:    userID,
					Type:      *change.Set,
				}
				if err := tx.Create(&reaction).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		var comment models.TaskComment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return err
		}

		comment.LikesCount = clampZero(comment.LikesCount + change.LikesDelta)
		comment.DislikesCount = clampZero(comment.DislikesCount + change.DislikesDelta)

		if err := tx.Save(&comment).Error; err != nil {
			return err
		}

		updated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
