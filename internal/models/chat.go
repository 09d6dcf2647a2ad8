package models

import (
	"time"
)

// Chat holds the per-conversation sequence counter. LastSeq is only ever
// advanced through a conditional update, which is what makes message
// ordering total within a chat even when writes race.
type Chat struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	ParticipantA string    `json:"participant_a" gorm:"not null;uniqueIndex:idx_participants"`
	ParticipantB string    `json:"participant_b" gorm:"not null;uniqueIndex:idx_participants"`
	LastSeq      int64     `json:"last_seq" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ChatID    string    `json:"chat_id" gorm:"not null;uniqueIndex:idx_chat_seq"`
	SenderID  string    `json:"sender_id" gorm:"not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Seq       int64     `json:"seq" gorm:"not null;uniqueIndex:idx_chat_seq"`
	CreatedAt time.Time `json:"created_at"`
}

// OtherParticipant returns the participant that is not userID.
func (c *Chat) OtherParticipant(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

func (Chat) TableName() string {
	return "chats"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
