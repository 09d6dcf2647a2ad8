package models

import (
	"time"
)

type GigStatus string

const (
	GigStatusOpen      GigStatus = "Open"
	GigStatusBooked    GigStatus = "Booked"
	GigStatusCompleted GigStatus = "Completed"
	GigStatusCancelled GigStatus = "Cancelled"
)

// Gig lifecycle is one-directional: Open -> Booked -> Completed, or
// Open -> Cancelled. BookedDjID is set exactly while status is Booked or
// Completed. The status column doubles as the booking compare-and-swap
// guard, so it is never written unconditionally.
type Gig struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	OwnerBusinessID string    `json:"owner_business_id" gorm:"not null;index"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"type:text"`
	Genres          string    `json:"genres"`
	Date            time.Time `json:"date" gorm:"not null"`
	Budget          int64     `json:"budget" gorm:"not null"`
	FlyerURL        string    `json:"flyer_url"`
	Status          GigStatus `json:"status" gorm:"not null;index;default:'Open'"`
	BookedDjID      string    `json:"booked_dj_id,omitempty"`
	AgreedRate      int64     `json:"agreed_rate,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Interest rows are destroyed by the booking arbiter (or gig cancellation),
// never by the DJ or the venue directly.
type Interest struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	GigID     string    `json:"gig_id" gorm:"not null;uniqueIndex:idx_gig_dj;index"`
	DjID      string    `json:"dj_id" gorm:"not null;uniqueIndex:idx_gig_dj;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Gig) TableName() string {
	return "gigs"
}

func (Interest) TableName() string {
	return "interests"
}
