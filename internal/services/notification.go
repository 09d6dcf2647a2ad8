package services

import (
	"context"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/google/uuid"
)

// NotificationService is the fan-out sink for every other component.
// Appends are best-effort: callers treat a failed Notify as a logged
// incident, never as a reason to roll back the primary mutation.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	producer         EventPublisher
	logger           *logger.Logger
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, producer EventPublisher, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		producer:         producer,
		logger:           logger,
	}
}

// Notify appends one notification row and announces it on the event
// topic. Duplicate deliveries are tolerated by recipients, so retrying
// callers at-least-once is safe.
func (s *NotificationService) Notify(ctx context.Context, recipientID string, notificationType models.NotificationType, message, relatedID string) error {
	notification := &models.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Type:        notificationType,
		Message:     message,
		RelatedID:   relatedID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}

	publishEvent(ctx, s.producer, s.logger, recipientID, queue.EventNotificationCreated, queue.NotificationEventData{
		NotificationID: notification.ID,
		RecipientID:    recipientID,
		Type:           string(notificationType),
		RelatedID:      relatedID,
	})

	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID string, offset, limit int) ([]*models.Notification, error) {
	return s.notificationRepo.ListForRecipient(ctx, recipientID, offset, limit)
}

func (s *NotificationService) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipientID)
}

// MarkAllRead bulk-flips the recipient's unread notifications and
// returns the affected count.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		publishEvent(ctx, s.producer, s.logger, recipientID, queue.EventNotificationsRead, queue.NotificationsReadEventData{
			RecipientID: recipientID,
			Count:       count,
		})
	}

	s.logger.WithFields(map[string]interface{}{
		"recipient_id": recipientID,
		"count":        count,
	}).Info("Notifications marked read")

	return count, nil
}
