package repository

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID, active or not
	FindByID(id uint64) (*models.User, error)

	// FindActiveByEmail finds an active user by email
	FindActiveByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Deactivate flags a user account inactive
	Deactivate(id uint64) error

	// ListActive lists all active users
	ListActive() ([]models.User, error)

	// Search finds active users whose name or email contains the term
	Search(term string) ([]models.User, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and enrolls the owner member atomically
	CreateWithOwner(project *models.Project, member *models.ProjectMember) error

	// FindByID finds an active project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListForUser lists active projects where the user is owner or member
	ListForUser(userID uint64) ([]models.Project, error)

	// ListAll lists every active project, newest first
	ListAll() ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete soft deletes a project
	Delete(id uint64) error

	// CountOwnedBy counts active projects owned by the user
	CountOwnedBy(userID uint64) (int64, error)

	// CountAll counts all active projects
	CountAll() (int64, error)

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// UpdateMember updates a membership record
	UpdateMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// ListMembers lists a project's members in join order
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// CountMembershipsOf counts the projects a user belongs to as a member
	CountMembershipsOf(userID uint64) (int64, error)

	// HasAccess reports whether the user owns or belongs to the project
	HasAccess(projectID, userID uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds an active task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject lists the active tasks of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// ListVisibleTo lists active tasks across all projects the user can access
	ListVisibleTo(userID uint64) ([]models.Task, error)

	// ListAll lists every active task system-wide
	ListAll() ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// ReactionChange is the storage-level outcome of a reaction toggle decision.
// A nil Set removes the caller's reaction row; otherwise the row is created
// or updated to the given type. Deltas adjust the comment's counters and are
// clamped at zero when applied.
type ReactionChange struct {
	Set           *models.ReactionType
	LikesDelta    int
	DislikesDelta int
}

// CommentRepository defines the interface for comment and reaction data access
type CommentRepository interface {
	// CreateComment creates a new comment
	CreateComment(comment *models.TaskComment) error

	// FindCommentByID finds a comment by ID
	FindCommentByID(id uint64) (*models.TaskComment, error)

	// ListByTask lists a task's comments, newest first
	ListByTask(taskID uint64) ([]models.TaskComment, error)

	// FindReaction finds the user's reaction on a comment
	FindReaction(commentID, userID uint64) (*models.CommentReaction, error)

	// ApplyReactionChange applies a toggle outcome atomically: the reaction
	// row write and the counter update happen in one transaction. Returns
	// the updated comment.
	ApplyReactionChange(commentID, userID uint64, change ReactionChange) (*models.TaskComment, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(notification *models.Notification) error

	// FindByID finds a notification by ID
	FindByID(id uint64) (*models.Notification, error)

	// ListByUser lists one page of a user's notifications, newest first
	ListByUser(userID uint64, params utils.PaginationParams) ([]models.Notification, error)

	// CountByUser counts all of a user's notifications
	CountByUser(userID uint64) (int64, error)

	// ListUnreadByUser lists a user's unread notifications, newest first
	ListUnreadByUser(userID uint64) ([]models.Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(userID uint64) (int64, error)

	// Update updates a notification
	Update(notification *models.Notification) error

	// MarkAllRead marks all of a user's notifications read
	MarkAllRead(userID uint64) error
}
