package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/dto"
	apperrors "github.com/taskhub-dev/taskhub/internal/errors"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	clock       services.Clock
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, clock services.Clock) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		clock:       clock,
	}
}

// CreateTaskRequest is the request body for task creation.
type CreateTaskRequest struct {
	Title          string              `json:"title" binding:"required,max=255"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	ProjectID      uint64              `json:"project_id" binding:"required"`
	AssignedToID   *uint64             `json:"assigned_to_id"`
	EstimatedHours *float64            `json:"estimated_hours"`
	DueDate        *time.Time          `json:"due_date"`
	Position       *int                `json:"position"`
}

// CreateTask creates a task in a project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		ProjectID:      req.ProjectID,
		AssignedToID:   req.AssignedToID,
		EstimatedHours: req.EstimatedHours,
		DueDate:        req.DueDate,
		Position:       req.Position,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, h.clock.Now()))
}

// GetTask returns one task the current user can read.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.clock.Now()))
}

// ListTasks returns the current user's visible tasks, filtered by any
// combination of query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	filter, err := parseTaskFilter(c)
	if err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.FilterTasks(userID, filter)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page := pageSlice(tasks, params)
	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, h.clock.Now(), params.Page, params.Limit, int64(len(tasks))))
}

// ListProjectTasks returns the active tasks of one project.
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}

	tasks, err := h.taskService.ListProjectTasks(userID, projectID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page := pageSlice(tasks, params)
	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, h.clock.Now(), params.Page, params.Limit, int64(len(tasks))))
}

// UpdateTaskRequest is the request body for partial task updates.
type UpdateTaskRequest struct {
	Title          *string              `json:"title" binding:"omitempty,max=255"`
	Description    *string              `json:"description"`
	Status         *models.TaskStatus   `json:"status"`
	Priority       *models.TaskPriority `json:"priority"`
	AssignedToID   *uint64              `json:"assigned_to_id"`
	EstimatedHours *float64             `json:"estimated_hours"`
	ActualHours    *float64             `json:"actual_hours"`
	DueDate        *time.Time           `json:"due_date"`
	Position       *int                 `json:"position"`
}

// UpdateTask partially updates a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(userID, taskID, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		AssignedToID:   req.AssignedToID,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		DueDate:        req.DueDate,
		Position:       req.Position,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.clock.Now()))
}

// DeleteTask soft deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// parseTaskFilter reads the combinable task filters from query parameters.
func parseTaskFilter(c *gin.Context) (services.TaskFilterInput, error) {
	var filter services.TaskFilterInput

	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, errInvalidQuery("project_id")
		}
		filter.ProjectID = &id
	}
	if v := c.Query("status"); v != "" {
		for _, s := range strings.Split(v, ",") {
			filter.Statuses = append(filter.Statuses, models.TaskStatus(strings.TrimSpace(s)))
		}
	}
	if v := c.Query("priority"); v != "" {
		for _, p := range strings.Split(v, ",") {
			filter.Priorities = append(filter.Priorities, models.TaskPriority(strings.TrimSpace(p)))
		}
	}
	if v := c.Query("assigned_to"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, errInvalidQuery("assigned_to")
		}
		filter.AssignedToID = &id
	}
	if v := c.Query("creator"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, errInvalidQuery("creator")
		}
		filter.CreatorID = &id
	}
	if v := c.Query("due_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidQuery("due_from")
		}
		filter.DueDateFrom = &t
	}
	if v := c.Query("due_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errInvalidQuery("due_to")
		}
		filter.DueDateTo = &t
	}
	filter.SearchText = c.Query("search")
	if v := c.Query("overdue"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errInvalidQuery("overdue")
		}
		filter.Overdue = &b
	}

	return filter, nil
}

type queryError string

func (e queryError) Error() string { return string(e) }

func errInvalidQuery(name string) error {
	return queryError("Invalid " + name + " parameter")
}
