package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/taskhub-dev/taskhub/internal/errors"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/repository"
	"github.com/taskhub-dev/taskhub/internal/stats"
	"gorm.io/gorm"
)

// UserService handles user profile and account business logic.
type UserService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	permissions *PermissionService
	clock       Clock
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	permissions *PermissionService,
	clock Clock,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		permissions: permissions,
		clock:       clock,
	}
}

// GetProfile returns the user's profile.
func (s *UserService) GetProfile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds the optional profile fields to change. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// UpdateProfile applies a partial update to the user's own profile.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeactivateAccount flags the user's account inactive. The account no longer
// authenticates but its authored records remain attributed.
func (s *UserService) DeactivateAccount(userID uint64) error {
	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	if err := s.userRepo.Deactivate(userID); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}

// ListUsers lists all active users.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SearchUsers finds active users whose name or email contains the term.
func (s *UserService) SearchUsers(term string) ([]models.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.User{}, nil
	}
	users, err := s.userRepo.Search(term)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// UserStatistics extends the task metrics with project counts and the
// subject's own-task breakdown.
type UserStatistics struct {
	stats.Statistics

	TotalProjects  int64 `json:"total_projects"`
	OwnedProjects  int64 `json:"owned_projects"`
	MemberProjects int64 `json:"member_projects"`

	MyTasksTotal      int64 `json:"my_tasks_total"`
	MyTasksInProgress int64 `json:"my_tasks_in_progress"`
	MyTasksDone       int64 `json:"my_tasks_done"`
	MyTasksOverdue    int64 `json:"my_tasks_overdue"`
}

// Statistics computes the user's dashboard metrics. Administrators see
// system-wide numbers; everyone else sees the projects and tasks they can
// access.
func (s *UserService) Statistics(userID uint64) (*UserStatistics, error) {
	if _, err := s.GetProfile(userID); err != nil {
		return nil, err
	}

	var (
		tasks []models.Task
		err   error
	)
	result := &UserStatistics{}

	if s.permissions.IsSystemAdmin(userID) {
		tasks, err = s.taskRepo.ListAll()
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		total, err := s.projectRepo.CountAll()
		if err != nil {
			return nil, fmt.Errorf("failed to count projects: %w", err)
		}
		owned, err := s.projectRepo.CountOwnedBy(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count owned projects: %w", err)
		}
		result.TotalProjects = total
		result.OwnedProjects = owned
		result.MemberProjects = total - owned
	} else {
		tasks, err = s.taskRepo.ListVisibleTo(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		owned, err := s.projectRepo.CountOwnedBy(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count owned projects: %w", err)
		}
		total, err := s.projectRepo.CountMembershipsOf(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count memberships: %w", err)
		}
		result.TotalProjects = total
		result.OwnedProjects = owned
		result.MemberProjects = total - owned
	}

	now := s.clock.Now()
	result.Statistics = stats.Compute(tasks, now, userID)

	for i := range tasks {
		t := &tasks[i]
		if t.AssignedToID == nil || *t.AssignedToID != userID {
			continue
		}
		result.MyTasksTotal++
		switch t.Status {
		case models.TaskStatusInProgress:
			result.MyTasksInProgress++
		case models.TaskStatusDone:
			result.MyTasksDone++
		}
		if t.IsOverdue(now) {
			result.MyTasksOverdue++
		}
	}

	return result, nil
}
