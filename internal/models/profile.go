package models

import (
	"time"
)

type Role string

const (
	RoleDJ       Role = "dj"
	RoleBusiness Role = "business"
	RoleListener Role = "listener"
)

// Profile is the local projection of the external identity directory.
// IDs are opaque strings minted by the identity provider.
type Profile struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Role          Role      `json:"role" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	AvatarURL     string    `json:"avatar_url"`
	FollowerCount int64     `json:"follower_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Follow struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	FollowerID string    `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_target"`
	TargetID   string    `json:"target_id" gorm:"not null;uniqueIndex:idx_follower_target;index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (Follow) TableName() string {
	return "follows"
}
