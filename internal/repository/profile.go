package repository

import (
	"context"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert writes the identity-provider projection. Follower counts are
// owned by the follow repository and never touched here.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "name", "avatar_url", "updated_at"}),
	}).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) ListByRole(ctx context.Context, role models.Role, offset, limit int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("follower_count DESC").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// AdjustFollowerCount moves the denormalized counter by delta, clamped at
// zero so a racing unfollow can never drive it negative.
func (r *ProfileRepository) AdjustFollowerCount(ctx context.Context, id string, delta int64) error {
	expr := gorm.Expr("follower_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN follower_count + ? < 0 THEN 0 ELSE follower_count + ? END", delta, delta)
	}
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		UpdateColumn("follower_count", expr).Error; err != nil {
		return fmt.Errorf("failed to adjust follower count: %w", err)
	}
	return nil
}
