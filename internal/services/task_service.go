package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/taskhub-dev/taskhub/internal/errors"
	"github.com/taskhub-dev/taskhub/internal/logger"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/repository"
	"github.com/taskhub-dev/taskhub/internal/stats"
	"gorm.io/gorm"
)

// TaskService applies the task lifecycle rules: creation, partial updates
// with the completion-timestamp transition, the distinct delete rule,
// filtering and per-project statistics.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	permissions *PermissionService
	notifier    Notifier
	clock       Clock
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	permissions *PermissionService,
	notifier Notifier,
	clock Clock,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		permissions: permissions,
		notifier:    notifier,
		clock:       clock,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	ProjectID      uint64
	AssignedToID   *uint64
	EstimatedHours *float64
	DueDate        *time.Time
	Position       *int
}

// UpdateTaskInput represents input for partially updating a task. A nil
// field leaves the stored value unchanged.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedToID   *uint64
	EstimatedHours *float64
	ActualHours    *float64
	DueDate        *time.Time
	Position       *int
}

// TaskFilterInput holds the combinable task filters. Absent filters are
// no-ops; the predicates are independent and order-insensitive.
type TaskFilterInput struct {
	ProjectID    *uint64
	Statuses     []models.TaskStatus
	Priorities   []models.TaskPriority
	AssignedToID *uint64
	CreatorID    *uint64
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
	SearchText   string
	Overdue      *bool
}

// CreateTask creates a task in an active project the actor can manage.
func (s *TaskService) CreateTask(userID uint64, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("Title is required")
	}

	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !s.permissions.HasAccess(userID, input.ProjectID) {
		return nil, apperrors.Forbidden("You don't have access to this project")
	}
	if !s.permissions.CanManageTasks(userID, input.ProjectID) {
		return nil, apperrors.Forbidden("You don't have permission to create tasks in this project")
	}

	if input.AssignedToID != nil {
		if err := s.validateAssignment(input.ProjectID, *input.AssignedToID, userID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         models.TaskStatusTodo,
		Priority:       models.TaskPriorityMedium,
		ProjectID:      input.ProjectID,
		AssignedToID:   input.AssignedToID,
		CreatorID:      userID,
		EstimatedHours: input.EstimatedHours,
		DueDate:        input.DueDate,
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Position != nil {
		task.Position = *input.Position
	}
	s.applyCompletionTimestamp(task)

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.Info().Uint64("task_id", task.ID).Uint64("project_id", project.ID).Msg("task created")

	if task.AssignedToID != nil && *task.AssignedToID != userID {
		s.notify(*task.AssignedToID, task, project, models.NotificationTaskAssigned,
			"New Task Assigned")
	}

	return task, nil
}

// GetTask returns a task the actor can read.
func (s *TaskService) GetTask(userID, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.HasAccess(userID, task.ProjectID) {
		return nil, apperrors.Forbidden("You don't have access to this task")
	}

	return task, nil
}

// ListProjectTasks returns the active tasks of one project.
func (s *TaskService) ListProjectTasks(userID, projectID uint64) ([]models.Task, error) {
	if !s.permissions.HasAccess(userID, projectID) {
		return nil, apperrors.Forbidden("You don't have access to this project")
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update. The completion timestamp transition
// is evaluated exactly once, after the new status value is resolved.
func (s *TaskService) UpdateTask(userID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanManageTasks(userID, task.ProjectID) {
		return nil, apperrors.Forbidden("You don't have permission to edit tasks in this project")
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}

	var priorAssignee *uint64
	if input.AssignedToID != nil {
		if err := s.validateAssignment(task.ProjectID, *input.AssignedToID, userID); err != nil {
			return nil, err
		}
		priorAssignee = task.AssignedToID
		task.AssignedToID = input.AssignedToID
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != nil {
		task.ActualHours = input.ActualHours
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Position != nil {
		task.Position = *input.Position
	}

	s.applyCompletionTimestamp(task)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	logger.Info().Uint64("task_id", task.ID).Msg("task updated")

	if input.AssignedToID != nil &&
		(priorAssignee == nil || *priorAssignee != *input.AssignedToID) &&
		*input.AssignedToID != userID {
		project, _ := s.projectRepo.FindByID(task.ProjectID)
		s.notify(*input.AssignedToID, task, project, models.NotificationTaskReassigned,
			"Task Reassigned to You")
	}

	return task, nil
}

// DeleteTask soft deletes a task. The rule is deliberately different from
// update: system admin, project owner, or the task's creator. A member
// holding the ADMIN project role cannot delete tasks they did not create.
func (s *TaskService) DeleteTask(userID, taskID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if !s.permissions.IsOwner(userID, task.ProjectID) && task.CreatorID != userID {
		return apperrors.Forbidden("Only system admin, project owner, or task creator can delete tasks")
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logger.Info().Uint64("task_id", taskID).Msg("task soft deleted")
	return nil
}

// FilterTasks applies the filter pipeline over the actor's base task set.
// Access is checked once against the project scope, never per task.
func (s *TaskService) FilterTasks(userID uint64, filter TaskFilterInput) ([]models.Task, error) {
	var tasks []models.Task
	var err error

	if filter.ProjectID != nil {
		if !s.permissions.HasAccess(userID, *filter.ProjectID) {
			return nil, apperrors.Forbidden("You don't have access to this project")
		}
		tasks, err = s.taskRepo.ListByProject(*filter.ProjectID)
	} else {
		tasks, err = s.taskRepo.ListVisibleTo(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for filtering: %w", err)
	}

	return applyTaskFilters(tasks, filter, s.clock.Now()), nil
}

// ProjectStatistics aggregates one project's active tasks as of now.
func (s *TaskService) ProjectStatistics(userID, projectID uint64) (*stats.Statistics, error) {
	if !s.permissions.HasAccess(userID, projectID) {
		return nil, apperrors.Forbidden("You don't have access to this project")
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project tasks: %w", err)
	}

	result := stats.Compute(tasks, s.clock.Now(), userID)
	return &result, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// validateAssignment checks an assignee before a task is (re)assigned. A
// system admin may assign any existing user; everyone else may only assign
// project members. A non-member assignee is caller input error, not an
// authorization failure.
func (s *TaskService) validateAssignment(projectID, assigneeID, actorID uint64) error {
	if s.permissions.IsSystemAdmin(actorID) {
		if _, err := s.userRepo.FindByID(assigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("User not found")
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		return nil
	}

	if _, err := s.projectRepo.FindMember(projectID, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.InvalidInput("Cannot assign task to user who is not a project member")
		}
		return fmt.Errorf("failed to verify project membership: %w", err)
	}
	return nil
}

// applyCompletionTimestamp keeps completedAt in lockstep with DONE. It runs
// once per create/update, after the final status value is known.
func (s *TaskService) applyCompletionTimestamp(task *models.Task) {
	if task.Status == models.TaskStatusDone && task.CompletedAt == nil {
		now := s.clock.Now()
		task.CompletedAt = &now
	}
	if task.Status != models.TaskStatusDone && task.CompletedAt != nil {
		task.CompletedAt = nil
	}
}

// notify emits a task notification without ever failing the caller.
func (s *TaskService) notify(targetID uint64, task *models.Task, project *models.Project, kind models.NotificationType, title string) {
	projectName := "Unknown Project"
	if project != nil {
		projectName = project.Name
	}
	message := fmt.Sprintf("You have been assigned to task '%s' in project '%s'", task.Title, projectName)
	if err := s.notifier.Notify(targetID, task.ID, kind, title, message); err != nil {
		logger.Error().Err(err).
			Uint64("task_id", task.ID).
			Uint64("user_id", targetID).
			Str("kind", string(kind)).
			Msg("notification emit failed")
	}
}
