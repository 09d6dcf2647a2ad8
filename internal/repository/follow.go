package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAlreadyFollowing is returned when the (follower, target) edge exists.
var ErrAlreadyFollowing = errors.New("already following")

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(ctx context.Context, followerID, targetID string) error {
	follow := &models.Follow{
		ID:         uuid.New().String(),
		FollowerID: followerID,
		TargetID:   targetID,
	}
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Delete removes the edge and reports whether a row was actually deleted,
// so the caller only decrements the follower count for a real unfollow.
func (r *FollowRepository) Delete(ctx context.Context, followerID, targetID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND target_id = ?", followerID, targetID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND target_id = ?", followerID, targetID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check follow status: %w", err)
	}
	return count > 0, nil
}

func (r *FollowRepository) GetFollowers(ctx context.Context, targetID string, offset, limit int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).
		Table("profiles").
		Joins("JOIN follows ON follows.follower_id = profiles.id").
		Where("follows.target_id = ?", targetID).
		Order("follows.created_at").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return profiles, nil
}

func (r *FollowRepository) GetFollowing(ctx context.Context, followerID string, offset, limit int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).
		Table("profiles").
		Joins("JOIN follows ON follows.target_id = profiles.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return profiles, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, targetID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("target_id = ?", targetID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}
