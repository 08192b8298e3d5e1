package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/dto"
	apperrors "github.com/taskhub-dev/taskhub/internal/errors"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// CreateProject creates a project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
		Color       string `json:"color" binding:"omitempty,max=20"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects lists the projects visible to the current user.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page := pageSlice(projects, params)
	c.JSON(http.StatusOK, dto.ToProjectListResponse(page, params.Page, params.Limit, int64(len(projects))))
}

// GetProject returns one project the current user can read.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(userID, projectID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject partially updates a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
		Color       *string `json:"color" binding:"omitempty,max=20"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(userID, projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject soft deletes a project.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(userID, projectID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GetStatistics aggregates the project's active tasks.
func (h *ProjectHandler) GetStatistics(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}

	result, err := h.taskService.ProjectStatistics(userID, projectID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddMember enrolls a user into the project by id or email.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}

	type AddMemberRequest struct {
		UserID *uint64            `json:"user_id"`
		Email  *string            `json:"email" binding:"omitempty,email"`
		Role   models.ProjectRole `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(userID, projectID, services.AddMemberInput{
		UserID: req.UserID,
		Email:  req.Email,
		Role:   req.Role,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// ListMembers lists a project's members.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}

	members, err := h.projectService.ListMembers(userID, projectID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToProjectMemberDTOs(members)})
}

// UpdateMemberRole changes a member's project role.
func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		apperrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateMemberRequest struct {
		Role models.ProjectRole `json:"role" binding:"required"`
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.UpdateMemberRole(userID, projectID, memberID, req.Role)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectMemberDTO(*member))
}

// RemoveMember removes a member from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, "Invalid project ID")
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		apperrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveMember(userID, projectID, memberID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
