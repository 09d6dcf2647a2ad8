package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSeqContention is returned when a message sequence could not be
// reserved after several attempts. Callers may retry; the message was not
// written.
var ErrSeqContention = errors.New("chat sequence contention")

const seqReserveAttempts = 5

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// GetOrCreate finds the chat between two participants, creating it if
// absent. Participants are stored in lexical order so the pair maps to a
// single row regardless of who opens the chat.
func (r *ChatRepository) GetOrCreate(ctx context.Context, userA, userB string) (*models.Chat, error) {
	if userB < userA {
		userA, userB = userB, userA
	}

	var chat models.Chat
	err := r.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", userA, userB).
		First(&chat).Error
	if err == nil {
		return &chat, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	chat = models.Chat{
		ID:           uuid.New().String(),
		ParticipantA: userA,
		ParticipantB: userB,
	}
	if err := r.db.WithContext(ctx).Create(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the creation race; the winner's row is authoritative.
			if err := r.db.WithContext(ctx).
				Where("participant_a = ? AND participant_b = ?", userA, userB).
				First(&chat).Error; err != nil {
				return nil, fmt.Errorf("failed to get chat after create race: %w", err)
			}
			return &chat, nil
		}
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return &chat, nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

func (r *ChatRepository) ListForUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	var chats []*models.Chat
	if err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("updated_at DESC").
		Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

// AppendMessage reserves the next per-chat sequence number with an
// optimistic compare-and-swap on chats.last_seq, then writes the message
// under that sequence in the same transaction. Racing senders retry on a
// lost swap, so every committed message carries a unique, strictly
// increasing seq within its chat.
func (r *ChatRepository) AppendMessage(ctx context.Context, chatID, senderID, text string) (*models.ChatMessage, error) {
	var message *models.ChatMessage

	for attempt := 0; attempt < seqReserveAttempts; attempt++ {
		var chat models.Chat
		if err := r.db.WithContext(ctx).First(&chat, "id = ?", chatID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, gorm.ErrRecordNotFound
			}
			return nil, fmt.Errorf("failed to get chat: %w", err)
		}

		seq := chat.LastSeq + 1
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Chat{}).
				Where("id = ? AND last_seq = ?", chatID, chat.LastSeq).
				UpdateColumn("last_seq", seq)
			if result.Error != nil {
				return fmt.Errorf("failed to reserve sequence: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrSeqContention
			}

			message = &models.ChatMessage{
				ID:       uuid.New().String(),
				ChatID:   chatID,
				SenderID: senderID,
				Text:     text,
				Seq:      seq,
			}
			if err := tx.Create(message).Error; err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
			return nil
		})
		if err == nil {
			return message, nil
		}
		if !errors.Is(err, ErrSeqContention) {
			return nil, err
		}
	}

	return nil, ErrSeqContention
}

// ListMessages returns messages in sequence order, which is also
// creation order within the chat.
func (r *ChatRepository) ListMessages(ctx context.Context, chatID string, offset, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("seq").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
