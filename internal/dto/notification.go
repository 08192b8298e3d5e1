package dto

import (
	"time"

	"github.com/taskhub-dev/taskhub/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	TaskID    uint64                  `json:"task_id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		TaskID:    n.TaskID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of notifications to DTOs
func ToNotificationDTOs(list []models.Notification) []NotificationDTO {
	items := make([]NotificationDTO, len(list))
	for i, n := range list {
		items[i] = ToNotificationDTO(n)
	}
	return items
}
