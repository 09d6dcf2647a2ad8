package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
)

type LikeService struct {
	likeRepo *repository.LikeRepository
	postRepo *repository.PostRepository
	producer EventPublisher
	logger   *logger.Logger
}

func NewLikeService(likeRepo *repository.LikeRepository, postRepo *repository.PostRepository, producer EventPublisher, logger *logger.Logger) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		postRepo: postRepo,
		producer: producer,
		logger:   logger,
	}
}

// Toggle flips the user's like on a post and reports the new state. The
// counter only moves when a row was actually inserted or removed, so
// concurrent toggles converge on the row count rather than drifting.
func (s *LikeService) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}

	removed, err := s.likeRepo.Delete(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if removed {
		if err := s.postRepo.AdjustLikeCount(ctx, postID, -1); err != nil {
			s.logger.WithError(err).Error("Failed to decrement like count")
		}
		publishEvent(ctx, s.producer, s.logger, postID, queue.EventPostUnliked, queue.LikeEventData{
			PostID: postID,
			UserID: userID,
			Liked:  false,
		})
		return false, nil
	}

	if err := s.likeRepo.Create(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyLiked) {
			// A racing toggle inserted first; the like stands.
			return true, nil
		}
		return false, err
	}
	if err := s.postRepo.AdjustLikeCount(ctx, postID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to increment like count")
	}

	publishEvent(ctx, s.producer, s.logger, postID, queue.EventPostLiked, queue.LikeEventData{
		PostID: postID,
		UserID: userID,
		Liked:  true,
	})

	return true, nil
}

func (s *LikeService) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	return s.likeRepo.Exists(ctx, postID, userID)
}

func (s *LikeService) Likers(ctx context.Context, postID string) ([]string, error) {
	return s.postRepo.LikedBy(ctx, postID)
}
