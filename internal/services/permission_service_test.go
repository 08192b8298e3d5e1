package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/internal/models"
)

func TestPermissionService_IsSystemAdmin(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.UserRoleAdmin)
	user := env.createUser(t, "user@example.com", models.UserRoleUser)

	require.True(t, env.permissions.IsSystemAdmin(admin.ID))
	require.False(t, env.permissions.IsSystemAdmin(user.ID))
	require.False(t, env.permissions.IsSystemAdmin(9999))
}

func TestPermissionService_IsSystemAdmin_DeactivatedAdmin(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := env.createUser(t, "admin@example.com", models.UserRoleAdmin)
	require.NoError(t, env.userRepo.Deactivate(admin.ID))

	require.False(t, env.permissions.IsSystemAdmin(admin.ID))
}

func TestPermissionService_HasAccess(t *testing.T) {
	env := setupServiceTestEnv(t)

	owner := env.createUser(t, "owner@example.com", models.UserRoleUser)
	member := env.createUser(t, "member@example.com", models.UserRoleUser)
	outsider := env.createUser(t, "outsider@example.com", models.UserRoleUser)
	admin := env.createUser(t, "admin@example.com", models.UserRoleAdmin)

	project := env.createProject(t, "Website", owner.ID)
	env.addMember(t, project.ID, member.ID, models.ProjectRoleMember)

	require.True(t, env.permissions.HasAccess(owner.ID, project.ID))
	require.True(t, env.permissions.HasAccess(member.ID, project.ID))
	require.True(t, env.permissions.HasAccess(admin.ID, project.ID))
	require.False(t, env.permissions.HasAccess(outsider.ID, project.ID))
}

func TestPermissionService_CapabilityLadder(t *testing.T) {
	env := setupServiceTestEnv(t)

	owner := env.createUser(t, "owner@example.com", models.UserRoleUser)
	projAdmin := env.createUser(t, "padmin@example.com", models.UserRoleUser)
	plainMember := env.createUser(t, "member@example.com", models.UserRoleUser)
	sysAdmin := env.createUser(t, "admin@example.com", models.UserRoleAdmin)

	project := env.createProject(t, "Website", owner.ID)
	env.addMember(t, project.ID, projAdmin.ID, models.ProjectRoleAdmin)
	env.addMember(t, project.ID, plainMember.ID, models.ProjectRoleMember)

	// Owner-only checks.
	require.True(t, env.permissions.IsOwner(owner.ID, project.ID))
	require.True(t, env.permissions.IsOwner(sysAdmin.ID, project.ID))
	require.False(t, env.permissions.IsOwner(projAdmin.ID, project.ID))
	require.False(t, env.permissions.IsOwner(plainMember.ID, project.ID))

	// Manage checks include the ADMIN project role.
	require.True(t, env.permissions.CanManageProject(owner.ID, project.ID))
	require.True(t, env.permissions.CanManageProject(projAdmin.ID, project.ID))
	require.False(t, env.permissions.CanManageProject(plainMember.ID, project.ID))

	// Task management follows the same rule; plain members are read-only.
	require.True(t, env.permissions.CanManageTasks(projAdmin.ID, project.ID))
	require.False(t, env.permissions.CanManageTasks(plainMember.ID, project.ID))
}

func TestPermissionService_MissingProject(t *testing.T) {
	env := setupServiceTestEnv(t)

	user := env.createUser(t, "user@example.com", models.UserRoleUser)

	require.False(t, env.permissions.HasAccess(user.ID, 9999))
	require.False(t, env.permissions.IsOwner(user.ID, 9999))
	require.False(t, env.permissions.CanManageProject(user.ID, 9999))
}
