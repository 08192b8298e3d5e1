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

// ProjectService handles project CRUD and the member administration
// invariants: exactly one OWNER per project, and the owner can neither be
// removed nor lose the OWNER role.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	permissions *PermissionService
	clock       Clock
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	permissions *PermissionService,
	clock Clock,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		permissions: permissions,
		clock:       clock,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
}

// UpdateProjectInput represents a partial project update
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

// AddMemberInput identifies the user to enroll by id or email (exactly one)
// and the role to grant.
type AddMemberInput struct {
	UserID *uint64
	Email  *string
	Role   models.ProjectRole
}

// CreateProject creates a project and enrolls the creator as its OWNER
// member in one atomic operation.
func (s *ProjectService) CreateProject(userID uint64, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("Project name is required")
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	color := input.Color
	if color == "" {
		color = models.DefaultProjectColor
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
		OwnerID:     userID,
	}
	member := &models.ProjectMember{
		JoinedAt: s.clock.Now(),
	}

	if err := s.projectRepo.CreateWithOwner(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logger.Info().Uint64("project_id", project.ID).Uint64("owner_id", userID).Msg("project created")
	return project, nil
}

// ListProjects returns the projects visible to the actor. System admins see
// every active project.
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	var err error

	if s.permissions.IsSystemAdmin(userID) {
		projects, err = s.projectRepo.ListAll()
	} else {
		projects, err = s.projectRepo.ListForUser(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project the actor can read.
func (s *ProjectService) GetProject(userID, projectID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.HasAccess(userID, projectID) {
		return nil, apperrors.Forbidden("You don't have access to this project")
	}

	return project, nil
}

// UpdateProject applies a partial update; requires the edit capability.
func (s *ProjectService) UpdateProject(userID, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.CanManageProject(userID, projectID) {
		return nil, apperrors.Forbidden("You don't have permission to edit this project")
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Color != nil {
		project.Color = *input.Color
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	logger.Info().Uint64("project_id", projectID).Msg("project updated")
	return project, nil
}

// DeleteProject soft deletes a project; owner only.
func (s *ProjectService) DeleteProject(userID, projectID uint64) error {
	if _, err := s.findProject(projectID); err != nil {
		return err
	}

	if !s.permissions.IsOwner(userID, projectID) {
		return apperrors.Forbidden("Only the project owner can delete this project")
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logger.Info().Uint64("project_id", projectID).Msg("project soft deleted")
	return nil
}

// AddMember enrolls a user, resolved by id or email; owner only. An OWNER
// role grant is rejected: a project has exactly one owner, fixed at
// creation.
func (s *ProjectService) AddMember(userID, projectID uint64, input AddMemberInput) (*models.ProjectMember, error) {
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}

	if !s.permissions.IsOwner(userID, projectID) {
		return nil, apperrors.Forbidden("Only the project owner can add members")
	}

	if (input.UserID == nil) == (input.Email == nil) {
		return nil, apperrors.InvalidInput("Exactly one of userId or email must be provided")
	}
	if input.Role == models.ProjectRoleOwner {
		return nil, apperrors.InvalidInput("A project can only have one owner")
	}

	userToAdd, err := s.resolveUser(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindMember(projectID, userToAdd.ID); err == nil {
		return nil, apperrors.Conflict("User is already a member of this project")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.ProjectRoleMember
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userToAdd.ID,
		Role:      role,
		JoinedAt:  s.clock.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("User is already a member of this project")
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	logger.Info().
		Uint64("project_id", projectID).
		Uint64("user_id", userToAdd.ID).
		Str("role", string(role)).
		Msg("project member added")

	member.User = *userToAdd
	return member, nil
}

// UpdateMemberRole changes a member's role; owner only. The owner's own
// membership is immutable: it must remain OWNER, and no second OWNER can be
// granted.
func (s *ProjectService) UpdateMemberRole(userID, projectID, memberUserID uint64, role models.ProjectRole) (*models.ProjectMember, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !s.permissions.IsOwner(userID, projectID) {
		return nil, apperrors.Forbidden("Only the project owner can update member roles")
	}
	if memberUserID == project.OwnerID {
		return nil, apperrors.Forbidden("The project owner's role cannot be changed")
	}
	if role == models.ProjectRoleOwner {
		return nil, apperrors.InvalidInput("A project can only have one owner")
	}

	member, err := s.projectRepo.FindMember(projectID, memberUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Member not found in this project")
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	member.Role = role
	if err := s.projectRepo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	logger.Info().
		Uint64("project_id", projectID).
		Uint64("user_id", memberUserID).
		Str("role", string(role)).
		Msg("member role updated")
	return member, nil
}

// RemoveMember removes a member; owner only. The owner cannot be removed;
// deleting the project is the only path to owner removal.
func (s *ProjectService) RemoveMember(userID, projectID, memberUserID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if !s.permissions.IsOwner(userID, projectID) {
		return apperrors.Forbidden("Only the project owner can remove members")
	}
	if memberUserID == project.OwnerID {
		return apperrors.Forbidden("Project owner cannot be removed. Delete the project instead.")
	}

	if _, err := s.projectRepo.FindMember(projectID, memberUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Member not found in this project")
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, memberUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	logger.Info().
		Uint64("project_id", projectID).
		Uint64("user_id", memberUserID).
		Msg("project member removed")
	return nil
}

// ListMembers returns a project's members in join order.
func (s *ProjectService) ListMembers(userID, projectID uint64) ([]models.ProjectMember, error) {
	if _, err := s.findProject(projectID); err != nil {
		return nil, err
	}

	if !s.permissions.HasAccess(userID, projectID) {
		return nil, apperrors.Forbidden("You don't have access to this project")
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) resolveUser(input AddMemberInput) (*models.User, error) {
	if input.UserID != nil {
		user, err := s.userRepo.FindByID(*input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("User not found")
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		return user, nil
	}

	user, err := s.userRepo.FindActiveByEmail(*input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("User with email %s not found", *input.Email))
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
