package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
)

type ChatService struct {
	chatRepo     *repository.ChatRepository
	profileRepo  *repository.ProfileRepository
	notification *NotificationService
	producer     EventPublisher
	logger       *logger.Logger
}

func NewChatService(chatRepo *repository.ChatRepository, profileRepo *repository.ProfileRepository, notification *NotificationService, producer EventPublisher, logger *logger.Logger) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		profileRepo:  profileRepo,
		notification: notification,
		producer:     producer,
		logger:       logger,
	}
}

// Open returns the conversation between the caller and the other user,
// creating it on first contact. A pair of users has exactly one chat.
func (s *ChatService) Open(ctx context.Context, callerID, otherID string) (*models.Chat, error) {
	if callerID == otherID {
		return nil, fmt.Errorf("%w: cannot chat with yourself", ErrValidation)
	}

	other, err := s.profileRepo.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, otherID)
	}

	return s.chatRepo.GetOrCreate(ctx, callerID, otherID)
}

// Send appends a message to the chat. The recipient gets a message
// notification and a chat.message event keyed by the chat id, which
// keeps per-chat delivery ordered downstream.
func (s *ChatService) Send(ctx context.Context, chatID, senderID, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}
	if chat.ParticipantA != senderID && chat.ParticipantB != senderID {
		return nil, fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
	}

	message, err := s.chatRepo.AppendMessage(ctx, chatID, senderID, text)
	if err != nil {
		return nil, err
	}

	recipientID := chat.OtherParticipant(senderID)

	sender, err := s.profileRepo.GetByID(ctx, senderID)
	if err == nil && sender != nil {
		text := fmt.Sprintf("New message from %s.", sender.Name)
		if err := s.notification.Notify(ctx, recipientID, models.NotificationMessage, text, chatID); err != nil {
			s.logger.WithError(err).Error("Failed to send message notification")
		}
	}

	publishEvent(ctx, s.producer, s.logger, chatID, queue.EventChatMessageSent, queue.ChatMessageEventData{
		MessageID:   message.ID,
		ChatID:      chatID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Seq:         message.Seq,
	})

	return message, nil
}

// History returns the chat's messages in sequence order. Only
// participants may read.
func (s *ChatService) History(ctx context.Context, chatID, callerID string, offset, limit int) ([]*models.ChatMessage, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}
	if chat.ParticipantA != callerID && chat.ParticipantB != callerID {
		return nil, fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
	}

	return s.chatRepo.ListMessages(ctx, chatID, offset, limit)
}

func (s *ChatService) ListForUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	return s.chatRepo.ListForUser(ctx, userID)
}
