package repository

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID, active or not. Deactivated accounts stay
// readable so tasks and comments can still name their creator.
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByEmail finds an active user by email
func (r *GormUserRepository) FindActiveByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ? AND is_active = ?", email, true).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Deactivate flags a user account inactive
func (r *GormUserRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("is_active", false).Error
}

// ListActive lists all active users
func (r *GormUserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_active = ?", true).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Search finds active users whose name or email contains the term
func (r *GormUserRepository) Search(term string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + term + "%"
	if err := r.db.
		Where("is_active = ?", true).
		Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", pattern, pattern, pattern).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
