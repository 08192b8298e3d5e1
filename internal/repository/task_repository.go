package repository

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds an active task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByProject lists the active tasks of a project, by board position
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("project_id = ?", projectID).
		Order("position ASC, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListVisibleTo lists active tasks across all projects the user can access.
// The project scope mirrors ProjectRepository.ListForUser: owned projects
// plus membership projects, active projects only.
func (r *GormTaskRepository) ListVisibleTo(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	projectSubQuery := r.db.Model(&models.Project{}).
		Select("id").
		Where("owner_id = ? OR id IN (?)", userID,
			r.db.Model(&models.ProjectMember{}).
				Select("project_id").
				Where("user_id = ?", userID))
	if err := r.db.
		Where("project_id IN (?)", projectSubQuery).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAll lists every active task system-wide
func (r *GormTaskRepository) ListAll() ([]models.Task, error) {
	var tasks []models.Task
	activeProjects := r.db.Model(&models.Project{}).Select("id")
	if err := r.db.
		Where("project_id IN (?)", activeProjects).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
