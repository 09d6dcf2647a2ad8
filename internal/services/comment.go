package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo  *repository.CommentRepository
	postRepo     *repository.PostRepository
	profileRepo  *repository.ProfileRepository
	notification *NotificationService
	producer     EventPublisher
	logger       *logger.Logger
}

func NewCommentService(commentRepo *repository.CommentRepository, postRepo *repository.PostRepository, profileRepo *repository.ProfileRepository, notification *NotificationService, producer EventPublisher, logger *logger.Logger) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		profileRepo:  profileRepo,
		notification: notification,
		producer:     producer,
		logger:       logger,
	}
}

// Add appends a comment and bumps the post's comment counter. The post
// author is notified unless they commented on their own post.
func (s *CommentService) Add(ctx context.Context, postID, authorID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}

	comment := &models.Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.postRepo.AdjustCommentCount(ctx, postID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to increment comment count")
	}

	if post.AuthorID != authorID {
		commenter, err := s.profileRepo.GetByID(ctx, authorID)
		if err == nil && commenter != nil {
			message := fmt.Sprintf("%s commented on your post.", commenter.Name)
			if err := s.notification.Notify(ctx, post.AuthorID, models.NotificationNewComment, message, postID); err != nil {
				s.logger.WithError(err).Error("Failed to send comment notification")
			}
		}
	}

	publishEvent(ctx, s.producer, s.logger, postID, queue.EventCommentCreated, queue.CommentEventData{
		CommentID: comment.ID,
		PostID:    postID,
		AuthorID:  authorID,
	})

	return comment, nil
}

// ListForPost returns comments oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID string, offset, limit int) ([]*models.Comment, error) {
	return s.commentRepo.ListForPost(ctx, postID, offset, limit)
}
