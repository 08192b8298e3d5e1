package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/dto"
	apperrors "github.com/taskhub-dev/taskhub/internal/errors"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
)

// CommentHandler coordinates comment and reaction HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// AddComment posts a comment on a task.
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid task ID")
		return
	}

	type AddCommentRequest struct {
		CommentText string `json:"comment_text" binding:"required"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddComment(userID, taskID, req.CommentText)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment, services.ReactionStateNone))
}

// ListComments lists a task's comments with the caller's own reaction on each.
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid task ID")
		return
	}

	comments, err := h.commentService.ListComments(userID, taskID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	items := make([]dto.CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = dto.ToCommentDTO(comment, h.commentService.UserReaction(userID, comment.ID))
	}

	c.JSON(http.StatusOK, gin.H{"comments": items})
}

// LikeComment toggles the caller's like on a comment.
func (h *CommentHandler) LikeComment(c *gin.Context) {
	h.react(c, h.commentService.Like)
}

// DislikeComment toggles the caller's dislike on a comment.
func (h *CommentHandler) DislikeComment(c *gin.Context) {
	h.react(c, h.commentService.Dislike)
}

func (h *CommentHandler) react(c *gin.Context, toggle func(userID, commentID uint64) (*services.ReactionResult, error)) {
	userID, _ := middleware.GetUserID(c)
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid comment ID")
		return
	}

	result, err := toggle(userID, commentID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
