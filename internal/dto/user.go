package dto

import (
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           uint64          `json:"id"`
	Email        string          `json:"email"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	FullName     string          `json:"full_name"`
	ProfileImage string          `json:"profile_image,omitempty"`
	Role         models.UserRole `json:"role"`
	CreatedAt    time.Time       `json:"created_at"`
}

// UserSummaryDTO represents a user embedded in other responses (minimal data)
type UserSummaryDTO struct {
	ID           uint64 `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		FullName:     user.FullName(),
		ProfileImage: user.ProfileImage,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:           user.ID,
		FullName:     user.FullName(),
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
	}
}

// ToUserSummaryDTOs converts a slice of users to summaries
func ToUserSummaryDTOs(users []models.User) []UserSummaryDTO {
	items := make([]UserSummaryDTO, len(users))
	for i, user := range users {
		items[i] = ToUserSummaryDTO(user)
	}
	return items
}
