package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigline/gigline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInterestExists is returned when the (gig, dj) pair already exists.
var ErrInterestExists = errors.New("interest already recorded")

type InterestRepository struct {
	db *gorm.DB
}

func NewInterestRepository(db *gorm.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

// CreateIfOpen inserts the interest only while the gig row still reads
// Open, in the same statement. A booking or cancellation that commits
// between the caller's status check and this insert makes the insert a
// no-op instead of leaving an orphan row on a closed gig. Returns false
// when the gig already left Open.
func (r *InterestRepository) CreateIfOpen(ctx context.Context, gigID, djID string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Exec(
		"INSERT INTO interests (id, gig_id, dj_id, created_at) SELECT ?, ?, ?, ? FROM gigs WHERE id = ? AND status = ?",
		uuid.New().String(), gigID, djID, now, gigID, models.GigStatusOpen,
	)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, ErrInterestExists
		}
		return false, fmt.Errorf("failed to create interest: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListDjIDs returns interested DJs in expression order, oldest first.
func (r *InterestRepository) ListDjIDs(ctx context.Context, gigID string) ([]string, error) {
	var djIDs []string
	if err := r.db.WithContext(ctx).
		Model(&models.Interest{}).
		Where("gig_id = ?", gigID).
		Order("created_at").
		Pluck("dj_id", &djIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list interested djs: %w", err)
	}
	return djIDs, nil
}

func (r *InterestRepository) ListGigIDsForDj(ctx context.Context, djID string) ([]string, error) {
	var gigIDs []string
	if err := r.db.WithContext(ctx).
		Model(&models.Interest{}).
		Where("dj_id = ?", djID).
		Order("created_at DESC").
		Pluck("gig_id", &gigIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list interested gigs: %w", err)
	}
	return gigIDs, nil
}

func (r *InterestRepository) DeleteForGig(ctx context.Context, gigID string) error {
	if err := r.db.WithContext(ctx).
		Where("gig_id = ?", gigID).
		Delete(&models.Interest{}).Error; err != nil {
		return fmt.Errorf("failed to delete interests for gig: %w", err)
	}
	return nil
}

func (r *InterestRepository) CountForGig(ctx context.Context, gigID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Interest{}).
		Where("gig_id = ?", gigID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count interests: %w", err)
	}
	return count, nil
}
