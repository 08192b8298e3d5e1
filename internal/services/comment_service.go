package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/taskhub-dev/taskhub/internal/errors"
	"github.com/taskhub-dev/taskhub/internal/logger"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/repository"
	"gorm.io/gorm"
)

// ReactionStateNone labels the absence of a reaction in results.
const ReactionStateNone = "NONE"

// ReactionResult carries a comment's counters after a toggle, plus the
// caller's own resulting reaction label.
type ReactionResult struct {
	CommentID     uint64 `json:"comment_id"`
	LikesCount    int    `json:"likes_count"`
	DislikesCount int    `json:"dislikes_count"`
	UserReaction  string `json:"user_reaction"`
}

// CommentService handles task comments and the like/dislike toggle state
// machine.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	permissions *PermissionService
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	taskRepo repository.TaskRepository,
	permissions *PermissionService,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		permissions: permissions,
	}
}

// AddComment posts a comment on a task the actor can read.
func (s *CommentService) AddComment(userID, taskID uint64, text string) (*models.TaskComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.InvalidInput("Comment text is required")
	}

	if err := s.checkTaskAccess(userID, taskID); err != nil {
		return nil, err
	}

	comment := &models.TaskComment{
		TaskID:      taskID,
		UserID:      userID,
		CommentText: text,
	}
	if err := s.commentRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments returns a task's comments, newest first.
func (s *CommentService) ListComments(userID, taskID uint64) ([]models.TaskComment, error) {
	if err := s.checkTaskAccess(userID, taskID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// UserReaction returns the caller's reaction label on a comment.
func (s *CommentService) UserReaction(userID, commentID uint64) string {
	reaction, err := s.commentRepo.FindReaction(commentID, userID)
	if err != nil {
		return ReactionStateNone
	}
	return string(reaction.Type)
}

// Like toggles the caller's like on a comment.
func (s *CommentService) Like(userID, commentID uint64) (*ReactionResult, error) {
	return s.react(userID, commentID, models.ReactionTypeLike)
}

// Dislike toggles the caller's dislike on a comment.
func (s *CommentService) Dislike(userID, commentID uint64) (*ReactionResult, error) {
	return s.react(userID, commentID, models.ReactionTypeDislike)
}

func (s *CommentService) react(userID, commentID uint64, command models.ReactionType) (*ReactionResult, error) {
	comment, err := s.commentRepo.FindCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Comment not found")
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if err := s.checkTaskAccess(userID, comment.TaskID); err != nil {
		return nil, err
	}

	var current *models.ReactionType
	if existing, err := s.commentRepo.FindReaction(commentID, userID); err == nil {
		current = &existing.Type
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find reaction: %w", err)
	}

	change := decideReaction(current, command)

	updated, err := s.commentRepo.ApplyReactionChange(commentID, userID, change)
	if err != nil {
		// A concurrent toggle on the same (comment, user) pair hits the
		// primary key; the caller can safely retry.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Reaction was modified concurrently, retry")
		}
		return nil, fmt.Errorf("failed to apply reaction: %w", err)
	}

	label := ReactionStateNone
	if change.Set != nil {
		label = string(*change.Set)
	}

	logger.Debug().
		Uint64("comment_id", commentID).
		Uint64("user_id", userID).
		Str("reaction", label).
		Msg("comment reaction toggled")

	return &ReactionResult{
		CommentID:     updated.ID,
		LikesCount:    updated.LikesCount,
		DislikesCount: updated.DislikesCount,
		UserReaction:  label,
	}, nil
}

// decideReaction is the toggle decision table. Repeating the current
// reaction removes it; issuing the opposite one switches it; reacting from
// a clean state adds it.
func decideReaction(current *models.ReactionType, command models.ReactionType) repository.ReactionChange {
	like, dislike := models.ReactionTypeLike, models.ReactionTypeDislike

	if current == nil {
		change := repository.ReactionChange{Set: &command}
		if command == like {
			change.LikesDelta = 1
		} else {
			change.DislikesDelta = 1
		}
		return change
	}

	if *current == command {
		change := repository.ReactionChange{Set: nil}
		if command == like {
			change.LikesDelta = -1
		} else {
			change.DislikesDelta = -1
		}
		return change
	}

	// Switch between like and dislike.
	change := repository.ReactionChange{Set: &command}
	if command == like && *current == dislike {
		change.LikesDelta = 1
		change.DislikesDelta = -1
	} else {
		change.LikesDelta = -1
		change.DislikesDelta = 1
	}
	return change
}

// checkTaskAccess resolves the comment's parent task and verifies read
// access to its project.
func (s *CommentService) checkTaskAccess(userID, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Task not found")
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !s.permissions.HasAccess(userID, task.ProjectID) {
		return apperrors.Forbidden("You don't have access to this task")
	}
	return nil
}
