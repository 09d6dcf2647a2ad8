package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/cache"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/google/uuid"
)

// EventWorker consumes the domain event topic and drives the async side
// effects: feed materialization for new gigs, realtime pushes and unread
// counters for notifications, and live chat delivery. Handlers are
// idempotent-enough for at-least-once delivery; a duplicate push is
// harmless and counters are resynced on every mark-all-read.
type EventWorker struct {
	gigRepo  *repository.GigRepository
	postRepo *repository.PostRepository
	cache    *cache.RedisClient
	consumer *queue.KafkaConsumer
	logger   *logger.Logger
}

func NewEventWorker(
	gigRepo *repository.GigRepository,
	postRepo *repository.PostRepository,
	cache *cache.RedisClient,
	consumer *queue.KafkaConsumer,
	logger *logger.Logger,
) *EventWorker {
	return &EventWorker{
		gigRepo:  gigRepo,
		postRepo: postRepo,
		cache:    cache,
		consumer: consumer,
		logger:   logger,
	}
}

func (w *EventWorker) Stop() error {
	return w.consumer.Close()
}

func notificationChannel(recipientID string) string {
	return "notifications:" + recipientID
}

func unreadCounterKey(recipientID string) string {
	return "unread:" + recipientID
}

func chatChannel(chatID string) string {
	return "chat:" + chatID
}

func (w *EventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting event worker...")

	return w.consumer.Subscribe(ctx, func(msg queue.Message) error {
		var event queue.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		w.logger.WithFields(map[string]interface{}{
			"event_type": event.Type,
			"timestamp":  event.Timestamp,
		}).Info("Processing event")

		switch event.Type {
		case queue.EventGigCreated:
			return w.handleGigCreated(ctx, event)
		case queue.EventNotificationCreated:
			return w.handleNotificationCreated(ctx, event)
		case queue.EventNotificationsRead:
			return w.handleNotificationsRead(ctx, event)
		case queue.EventChatMessageSent:
			return w.handleChatMessage(ctx, event)
		default:
			return nil
		}
	})
}

// handleGigCreated materializes the gig announcement into the feed so a
// new listing shows up without the venue posting twice.
func (w *EventWorker) handleGigCreated(ctx context.Context, event queue.Event) error {
	var data queue.GigEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal gig event: %w", err)
	}

	gig, err := w.gigRepo.GetByID(ctx, data.GigID)
	if err != nil {
		return err
	}
	if gig == nil {
		w.logger.WithField("gig_id", data.GigID).Warn("Gig not found for announcement")
		return nil
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  gig.OwnerBusinessID,
		Kind:      models.PostKindGigAnnouncement,
		Title:     gig.Title,
		Body:      gig.Description,
		MediaURL:  gig.FlyerURL,
		RelatedID: gig.ID,
	}
	if err := w.postRepo.Create(ctx, post); err != nil {
		return err
	}

	w.logger.WithFields(map[string]interface{}{
		"gig_id":  gig.ID,
		"post_id": post.ID,
	}).Info("Gig announcement materialized")

	return nil
}

// handleNotificationCreated pushes the notification to the recipient's
// realtime channel and bumps their unread counter.
func (w *EventWorker) handleNotificationCreated(ctx context.Context, event queue.Event) error {
	var data queue.NotificationEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal notification event: %w", err)
	}

	if err := w.cache.Publish(ctx, notificationChannel(data.RecipientID), data); err != nil {
		w.logger.WithError(err).Error("Failed to push notification")
	}

	if _, err := w.cache.Incr(ctx, unreadCounterKey(data.RecipientID)); err != nil {
		w.logger.WithError(err).Error("Failed to bump unread counter")
	}

	return nil
}

func (w *EventWorker) handleNotificationsRead(ctx context.Context, event queue.Event) error {
	var data queue.NotificationsReadEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal notifications read event: %w", err)
	}

	if err := w.cache.Delete(ctx, unreadCounterKey(data.RecipientID)); err != nil {
		w.logger.WithError(err).Error("Failed to reset unread counter")
	}

	return nil
}

// handleChatMessage fans the message out to subscribers of the chat's
// realtime channel. The event stream is partitioned by chat id, so
// messages arrive here in sequence order per chat.
func (w *EventWorker) handleChatMessage(ctx context.Context, event queue.Event) error {
	var data queue.ChatMessageEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal chat message event: %w", err)
	}

	if err := w.cache.Publish(ctx, chatChannel(data.ChatID), data); err != nil {
		w.logger.WithError(err).Error("Failed to push chat message")
	}

	return nil
}
