package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/repository"
	"github.com/taskhub-dev/taskhub/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// handlerTestEnv runs the full HTTP surface against in-memory storage with a
// cookie session store standing in for Redis.
type handlerTestEnv struct {
	db     *gorm.DB
	router *gin.Engine

	auth          *services.AuthService
	notifications *services.NotificationService
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	clock := services.SystemClock()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	permissions := services.NewPermissionService(userRepo, projectRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, projectRepo, taskRepo, permissions, clock)
	projectService := services.NewProjectService(projectRepo, userRepo, permissions, clock)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, permissions, notificationService, clock)
	commentService := services.NewCommentService(commentRepo, taskRepo, permissions)

	authHandler := NewAuthHandler(authService, userService)
	userHandler := NewUserHandler(userService)
	projectHandler := NewProjectHandler(projectService, taskService)
	taskHandler := NewTaskHandler(taskService, clock)
	commentHandler := NewCommentHandler(commentService)
	notificationHandler := NewNotificationHandler(notificationService)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("taskhub_session", store))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/me", userHandler.GetProfile)
			users.PATCH("/me", userHandler.UpdateProfile)
			users.DELETE("/me", userHandler.DeactivateAccount)
			users.GET("/me/statistics", userHandler.GetStatistics)
		}

		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/statistics", projectHandler.GetStatistics)
			projects.GET("/:id/tasks", taskHandler.ListProjectTasks)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.PATCH("/:id/members/:userId", projectHandler.UpdateMemberRole)
			projects.DELETE("/:id/members/:userId", projectHandler.RemoveMember)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/comments", commentHandler.AddComment)
			tasks.GET("/:id/comments", commentHandler.ListComments)
		}

		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.POST("/:id/like", commentHandler.LikeComment)
			comments.POST("/:id/dislike", commentHandler.DislikeComment)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}
	}

	return &handlerTestEnv{
		db:            db,
		router:        r,
		auth:          authService,
		notifications: notificationService,
	}
}

// signup registers a user and returns the session cookies from login.
func (env *handlerTestEnv) signup(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	_, err := env.auth.Signup(services.SignupInput{
		Email:     email,
		Password:  "supersecret",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)

	return env.login(t, email)
}

func (env *handlerTestEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	return w.Result().Cookies()
}

// do executes one request against the router and returns the recorder.
func (env *handlerTestEnv) do(t *testing.T, method, url string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (env *handlerTestEnv) makeAdmin(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, env.db.Model(&models.User{}).
		Where("email = ?", email).
		Update("role", models.UserRoleAdmin).Error)
}
