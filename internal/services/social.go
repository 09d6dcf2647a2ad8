package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
)

type SocialService struct {
	profileRepo  *repository.ProfileRepository
	followRepo   *repository.FollowRepository
	directory    *DirectoryService
	notification *NotificationService
	producer     EventPublisher
	logger       *logger.Logger
}

func NewSocialService(profileRepo *repository.ProfileRepository, followRepo *repository.FollowRepository, directory *DirectoryService, notification *NotificationService, producer EventPublisher, logger *logger.Logger) *SocialService {
	return &SocialService{
		profileRepo:  profileRepo,
		followRepo:   followRepo,
		directory:    directory,
		notification: notification,
		producer:     producer,
		logger:       logger,
	}
}

// Follow creates the edge and bumps the target's follower count. A
// repeated follow is a silent no-op; following yourself is rejected.
func (s *SocialService) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", ErrValidation)
	}

	follower, err := s.profileRepo.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	if follower == nil {
		return fmt.Errorf("%w: profile %s", ErrNotFound, followerID)
	}

	target, err := s.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: profile %s", ErrNotFound, targetID)
	}

	if err := s.followRepo.Create(ctx, followerID, targetID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return nil
		}
		return err
	}

	if err := s.profileRepo.AdjustFollowerCount(ctx, targetID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to increment follower count")
	}
	s.directory.invalidate(ctx, targetID)

	message := fmt.Sprintf("%s started following you.", follower.Name)
	if err := s.notification.Notify(ctx, targetID, models.NotificationNewFollower, message, followerID); err != nil {
		s.logger.WithError(err).Error("Failed to send new-follower notification")
	}

	publishEvent(ctx, s.producer, s.logger, targetID, queue.EventFollowCreated, queue.FollowEventData{
		FollowerID: followerID,
		TargetID:   targetID,
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_id": followerID,
		"target_id":   targetID,
	}).Info("Follow created")

	return nil
}

// Unfollow removes the edge. Removing an edge that does not exist is a
// no-op and does not touch the follower count.
func (s *SocialService) Unfollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return fmt.Errorf("%w: cannot unfollow yourself", ErrValidation)
	}

	removed, err := s.followRepo.Delete(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	if err := s.profileRepo.AdjustFollowerCount(ctx, targetID, -1); err != nil {
		s.logger.WithError(err).Error("Failed to decrement follower count")
	}
	s.directory.invalidate(ctx, targetID)

	publishEvent(ctx, s.producer, s.logger, targetID, queue.EventFollowDeleted, queue.FollowEventData{
		FollowerID: followerID,
		TargetID:   targetID,
	})

	return nil
}

func (s *SocialService) Followers(ctx context.Context, targetID string, offset, limit int) ([]*models.Profile, error) {
	return s.followRepo.GetFollowers(ctx, targetID, offset, limit)
}

func (s *SocialService) Following(ctx context.Context, followerID string, offset, limit int) ([]*models.Profile, error) {
	return s.followRepo.GetFollowing(ctx, followerID, offset, limit)
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, targetID)
}
