package services

import (
	"errors"
	"fmt"

	apperrors "github.com/taskhub-dev/taskhub/internal/errors"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/repository"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"gorm.io/gorm"
)

// Notifier delivers task event notifications. Delivery is best-effort:
// implementations must never propagate a failure to the triggering write.
type Notifier interface {
	Notify(userID, taskID uint64, kind models.NotificationType, title, message string) error
}

// NotificationService stores notifications and serves the inbox endpoints.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// Notify records a notification for the target user.
func (s *NotificationService) Notify(userID, taskID uint64, kind models.NotificationType, title, message string) error {
	notification := &models.Notification{
		UserID:  userID,
		TaskID:  taskID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns one page of the user's notifications, newest
// first, along with the total count.
func (s *NotificationService) ListNotifications(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	total, err := s.notificationRepo.CountByUser(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	notifications, err := s.notificationRepo.ListByUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// ListUnread returns the user's unread notifications, newest first.
func (s *NotificationService) ListUnread(userID uint64) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListUnreadByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the user's unread notification count.
func (s *NotificationService) UnreadCount(userID uint64) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead marks one of the user's notifications read. Another user's
// notification is reported as absent, not forbidden.
func (s *NotificationService) MarkRead(userID, notificationID uint64) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Notification not found")
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	if notification.UserID != userID {
		return nil, apperrors.NotFound("Notification not found")
	}

	notification.IsRead = true
	if err := s.notificationRepo.Update(notification); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return notification, nil
}

// MarkAllRead marks all of the user's notifications read.
func (s *NotificationService) MarkAllRead(userID uint64) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
