package models

import (
	"time"
)

type NotificationType string

const (
	NotificationMessage          NotificationType = "message"
	NotificationBookingRequest   NotificationType = "booking_request"
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationGigFilled        NotificationType = "gig_filled"
	NotificationEventUpdate      NotificationType = "event_update"
	NotificationNewFollower      NotificationType = "new_follower"
	NotificationNewComment       NotificationType = "new_comment"
	NotificationRepost           NotificationType = "repost"
)

// Notifications are append-only; the only mutation is the bulk
// mark-all-read per recipient.
type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey"`
	RecipientID string           `json:"recipient_id" gorm:"not null;index"`
	Type        NotificationType `json:"type" gorm:"not null"`
	Message     string           `json:"message" gorm:"type:text"`
	RelatedID   string           `json:"related_id,omitempty"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}
