package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/repository"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fixedClock pins time for deterministic lifecycle and statistics tests.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// firstPage covers every test inbox; none grows past one page.
var firstPage = utils.PaginationParams{Page: 1, Limit: 20}

type serviceTestEnv struct {
	db *gorm.DB

	userRepo         repository.UserRepository
	projectRepo      repository.ProjectRepository
	taskRepo         repository.TaskRepository
	commentRepo      repository.CommentRepository
	notificationRepo repository.NotificationRepository

	permissions   *PermissionService
	notifications *NotificationService
	auth          *AuthService
	users         *UserService
	projects      *ProjectService
	tasks         *TaskService
	comments      *CommentService
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskComment{},
		&models.CommentReaction{},
		&models.Notification{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	env := &serviceTestEnv{db: db}
	env.userRepo = repository.NewUserRepository(db)
	env.projectRepo = repository.NewProjectRepository(db)
	env.taskRepo = repository.NewTaskRepository(db)
	env.commentRepo = repository.NewCommentRepository(db)
	env.notificationRepo = repository.NewNotificationRepository(db)

	clock := fixedClock{t: testNow}
	env.permissions = NewPermissionService(env.userRepo, env.projectRepo)
	env.notifications = NewNotificationService(env.notificationRepo)
	env.auth = NewAuthService(env.userRepo)
	env.users = NewUserService(env.userRepo, env.projectRepo, env.taskRepo, env.permissions, clock)
	env.projects = NewProjectService(env.projectRepo, env.userRepo, env.permissions, clock)
	env.tasks = NewTaskService(env.taskRepo, env.projectRepo, env.userRepo, env.permissions, env.notifications, clock)
	env.comments = NewCommentService(env.commentRepo, env.taskRepo, env.permissions)

	return env
}

func (env *serviceTestEnv) createUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *serviceTestEnv) createProject(t *testing.T, name string, ownerID uint64) *models.Project {
	t.Helper()
	project, err := env.projects.CreateProject(ownerID, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return project
}

func (env *serviceTestEnv) addMember(t *testing.T, projectID, userID uint64, role models.ProjectRole) {
	t.Helper()
	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  testNow,
	}
	require.NoError(t, env.db.Create(member).Error)
}

func (env *serviceTestEnv) createTask(t *testing.T, title string, projectID, creatorID uint64) *models.Task {
	t.Helper()
	task, err := env.tasks.CreateTask(creatorID, CreateTaskInput{
		Title:     title,
		ProjectID: projectID,
	})
	require.NoError(t, err)
	return task
}
