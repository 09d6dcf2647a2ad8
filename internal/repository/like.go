package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAlreadyLiked is returned when the (post, user) like row exists.
var ErrAlreadyLiked = errors.New("already liked")

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, postID, userID string) error {
	like := &models.PostLike{
		ID:     uuid.New().String(),
		PostID: postID,
		UserID: userID,
	}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete reports whether a like row was actually removed; the counter is
// only decremented for a real removal.
func (r *LikeRepository) Delete(ctx context.Context, postID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check like status: %w", err)
	}
	return count > 0, nil
}

func (r *LikeRepository) CountForPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
