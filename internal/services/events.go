package services

import (
	"context"

	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
)

// EventPublisher is the slice of the kafka producer the services need.
// Satisfied by *queue.KafkaProducer; tests substitute a recording stub.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// publishEvent is fire-and-forget: a broker outage must never roll back
// the mutation that already committed, so failures are logged only.
func publishEvent(ctx context.Context, producer EventPublisher, log *logger.Logger, key string, eventType queue.EventType, data interface{}) {
	event, err := queue.NewEvent(eventType, data)
	if err != nil {
		log.WithError(err).WithField("event_type", eventType).Error("Failed to build event")
		return
	}
	if err := producer.Publish(ctx, key, event); err != nil {
		log.WithError(err).WithField("event_type", eventType).Error("Failed to publish event")
	}
}
