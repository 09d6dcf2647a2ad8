package models

import (
	"time"
)

type PostKind string

const (
	PostKindUserPost        PostKind = "user_post"
	PostKindNewTrack        PostKind = "new_track"
	PostKindNewMix          PostKind = "new_mix"
	PostKindGigAnnouncement PostKind = "gig_announcement"
	PostKindLiveNow         PostKind = "live_now"
	PostKindNewConnection   PostKind = "new_connection"
)

// Post content is immutable after creation; only the engagement counters
// move. RepostOf always references an original post (one level deep), never
// another repost.
type Post struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	AuthorID     string    `json:"author_id" gorm:"not null;index"`
	Kind         PostKind  `json:"kind" gorm:"not null"`
	Title        string    `json:"title"`
	Body         string    `json:"body" gorm:"type:text"`
	MediaURL     string    `json:"media_url"`
	RelatedID    string    `json:"related_id,omitempty"`
	RepostOf     string    `json:"repost_of,omitempty" gorm:"index"`
	LikeCount    int64     `json:"like_count" gorm:"not null;default:0"`
	RepostCount  int64     `json:"repost_count" gorm:"not null;default:0"`
	CommentCount int64     `json:"comment_count" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PostLike struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;uniqueIndex:idx_post_user;index"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;index"`
	AuthorID  string    `json:"author_id" gorm:"not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}

func (PostLike) TableName() string {
	return "post_likes"
}

func (Comment) TableName() string {
	return "comments"
}
