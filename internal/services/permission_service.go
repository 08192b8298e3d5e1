package services

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/repository"
)

// PermissionService is the single source of truth for project-level access
// decisions. Every other service asks it instead of re-deriving capability
// from raw fields; the system-admin bypass lives here and nowhere else.
//
// All methods are read-only and answer false on missing rows or storage
// errors; callers raise their own authorization failures.
type PermissionService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *PermissionService {
	return &PermissionService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// IsSystemAdmin reports whether the user is an active system-wide admin.
func (s *PermissionService) IsSystemAdmin(userID uint64) bool {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false
	}
	return user.IsActive && user.IsAdmin()
}

// HasAccess reports whether the user may read the project: system admin,
// project owner, or enrolled member.
func (s *PermissionService) HasAccess(userID, projectID uint64) bool {
	if s.IsSystemAdmin(userID) {
		return true
	}
	ok, err := s.projectRepo.HasAccess(projectID, userID)
	if err != nil {
		return false
	}
	return ok
}

// IsOwner reports whether the user satisfies owner-only checks. System
// admins are treated as owners for action gating.
func (s *PermissionService) IsOwner(userID, projectID uint64) bool {
	if s.IsSystemAdmin(userID) {
		return true
	}
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return false
	}
	return project.OwnerID == userID
}

// CanManageProject reports the edit capability: owner (or admin), or a
// member holding the OWNER or ADMIN project role.
func (s *PermissionService) CanManageProject(userID, projectID uint64) bool {
	if s.IsOwner(userID, projectID) {
		return true
	}
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		return false
	}
	return member.Role == models.ProjectRoleOwner || member.Role == models.ProjectRoleAdmin
}

// CanManageTasks reports the task create/edit capability. A plain MEMBER is
// read-only for tasks; the rule is identical to CanManageProject.
func (s *PermissionService) CanManageTasks(userID, projectID uint64) bool {
	return s.CanManageProject(userID, projectID)
}
