package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    false,
	}

	return &KafkaProducer{writer: writer}
}

func NewKafkaConsumer(brokers []string, topic, groupID string) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1 * time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader}
}

// Publish writes one event keyed by the owning entity id. Events for the
// same key land on the same partition, which is what preserves per-chat
// and per-recipient ordering downstream.
func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

func (c *KafkaConsumer) Subscribe(ctx context.Context, handler func(Message) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			message, err := c.reader.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}

			msg := Message{
				Key:   string(message.Key),
				Value: message.Value,
				Topic: message.Topic,
			}

			if err := handler(msg); err != nil {
				fmt.Printf("Failed to handle message: %v\n", err)
				continue
			}
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type Message struct {
	Key   string
	Value []byte
	Topic string
}

type EventType string

const (
	EventProfileSynced       EventType = "profile.synced"
	EventFollowCreated       EventType = "follow.created"
	EventFollowDeleted       EventType = "follow.deleted"
	EventGigCreated          EventType = "gig.created"
	EventGigCancelled        EventType = "gig.cancelled"
	EventGigBooked           EventType = "gig.booked"
	EventGigCompleted        EventType = "gig.completed"
	EventInterestCreated     EventType = "interest.created"
	EventPostCreated         EventType = "post.created"
	EventPostLiked           EventType = "post.liked"
	EventPostUnliked         EventType = "post.unliked"
	EventPostReposted        EventType = "post.reposted"
	EventCommentCreated      EventType = "comment.created"
	EventNotificationCreated EventType = "notification.created"
	EventNotificationsRead   EventType = "notifications.read"
	EventChatMessageSent     EventType = "chat.message"
)

type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent marshals data into the event envelope. Payload types live below.
func NewEvent(eventType EventType, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      raw,
	}, nil
}

type GigEventData struct {
	GigID           string `json:"gig_id"`
	OwnerBusinessID string `json:"owner_business_id"`
	Title           string `json:"title"`
	BookedDjID      string `json:"booked_dj_id,omitempty"`
}

type FollowEventData struct {
	FollowerID string `json:"follower_id"`
	TargetID   string `json:"target_id"`
}

type PostEventData struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
	Kind     string `json:"kind"`
}

type LikeEventData struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
	Liked  bool   `json:"liked"`
}

type CommentEventData struct {
	CommentID string `json:"comment_id"`
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
}

type NotificationEventData struct {
	NotificationID string `json:"notification_id"`
	RecipientID    string `json:"recipient_id"`
	Type           string `json:"type"`
	RelatedID      string `json:"related_id,omitempty"`
}

type NotificationsReadEventData struct {
	RecipientID string `json:"recipient_id"`
	Count       int64  `json:"count"`
}

type ChatMessageEventData struct {
	MessageID   string `json:"message_id"`
	ChatID      string `json:"chat_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Seq         int64  `json:"seq"`
}
