package services

import (
	"context"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/google/uuid"
)

type FeedService struct {
	postRepo     *repository.PostRepository
	profileRepo  *repository.ProfileRepository
	notification *NotificationService
	producer     EventPublisher
	logger       *logger.Logger
}

func NewFeedService(postRepo *repository.PostRepository, profileRepo *repository.ProfileRepository, notification *NotificationService, producer EventPublisher, logger *logger.Logger) *FeedService {
	return &FeedService{
		postRepo:     postRepo,
		profileRepo:  profileRepo,
		notification: notification,
		producer:     producer,
		logger:       logger,
	}
}

type CreatePostRequest struct {
	Kind     models.PostKind `json:"kind" binding:"required"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	MediaURL string          `json:"media_url"`
}

func validPostKind(kind models.PostKind) bool {
	switch kind {
	case models.PostKindUserPost, models.PostKindNewTrack, models.PostKindNewMix,
		models.PostKindGigAnnouncement, models.PostKindLiveNow, models.PostKindNewConnection:
		return true
	}
	return false
}

func (s *FeedService) CreatePost(ctx context.Context, authorID string, req *CreatePostRequest) (*models.Post, error) {
	if !validPostKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown post kind %q", ErrValidation, req.Kind)
	}
	if req.Title == "" && req.Body == "" && req.MediaURL == "" {
		return nil, fmt.Errorf("%w: post has no content", ErrValidation)
	}

	author, err := s.profileRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, authorID)
	}

	post := &models.Post{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Kind:     req.Kind,
		Title:    req.Title,
		Body:     req.Body,
		MediaURL: req.MediaURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.producer, s.logger, post.ID, queue.EventPostCreated, queue.PostEventData{
		PostID:   post.ID,
		AuthorID: authorID,
		Kind:     string(req.Kind),
	})

	return post, nil
}

// Repost shares an existing post. Reposting a repost collapses to the
// original: the new post references the original directly and only the
// original's repost counter moves, so share counts never fragment across
// chains.
func (s *FeedService) Repost(ctx context.Context, postID, userID string) (*models.Post, error) {
	target, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}

	original := target
	if target.RepostOf != "" {
		original, err = s.postRepo.GetByID(ctx, target.RepostOf)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return nil, fmt.Errorf("%w: original post %s is gone", ErrInvalidState, target.RepostOf)
		}
	}

	repost := &models.Post{
		ID:       uuid.New().String(),
		AuthorID: userID,
		Kind:     original.Kind,
		RepostOf: original.ID,
	}
	if err := s.postRepo.Create(ctx, repost); err != nil {
		return nil, err
	}

	if err := s.postRepo.AdjustRepostCount(ctx, original.ID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to increment repost count")
	}

	if original.AuthorID != userID {
		reposter, err := s.profileRepo.GetByID(ctx, userID)
		if err == nil && reposter != nil {
			message := fmt.Sprintf("%s reposted your post.", reposter.Name)
			if err := s.notification.Notify(ctx, original.AuthorID, models.NotificationRepost, message, original.ID); err != nil {
				s.logger.WithError(err).Error("Failed to send repost notification")
			}
		}
	}

	publishEvent(ctx, s.producer, s.logger, original.ID, queue.EventPostReposted, queue.PostEventData{
		PostID:   repost.ID,
		AuthorID: userID,
		Kind:     string(repost.Kind),
	})

	return repost, nil
}

func (s *FeedService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	return post, nil
}

// ListFeed returns the global feed, newest first.
func (s *FeedService) ListFeed(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, offset, limit)
}

func (s *FeedService) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, offset, limit)
}
