package repository

import (
	"context"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"gorm.io/gorm"
)

type GigRepository struct {
	db *gorm.DB
}

func NewGigRepository(db *gorm.DB) *GigRepository {
	return &GigRepository{db: db}
}

func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	if err := r.db.WithContext(ctx).Create(gig).Error; err != nil {
		return fmt.Errorf("failed to create gig: %w", err)
	}
	return nil
}

func (r *GigRepository) GetByID(ctx context.Context, id string) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.WithContext(ctx).First(&gig, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get gig: %w", err)
	}
	return &gig, nil
}

func (r *GigRepository) ListByStatus(ctx context.Context, status models.GigStatus, offset, limit int) ([]*models.Gig, error) {
	var gigs []*models.Gig
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("date").
		Offset(offset).
		Limit(limit).
		Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("failed to list gigs: %w", err)
	}
	return gigs, nil
}

func (r *GigRepository) ListByOwner(ctx context.Context, ownerBusinessID string, offset, limit int) ([]*models.Gig, error) {
	var gigs []*models.Gig
	if err := r.db.WithContext(ctx).
		Where("owner_business_id = ?", ownerBusinessID).
		Order("date DESC").
		Offset(offset).
		Limit(limit).
		Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("failed to list gigs by owner: %w", err)
	}
	return gigs, nil
}

func (r *GigRepository) ListByBookedDj(ctx context.Context, djID string, status models.GigStatus, offset, limit int) ([]*models.Gig, error) {
	var gigs []*models.Gig
	if err := r.db.WithContext(ctx).
		Where("booked_dj_id = ? AND status = ?", djID, status).
		Order("date DESC").
		Offset(offset).
		Limit(limit).
		Find(&gigs).Error; err != nil {
		return nil, fmt.Errorf("failed to list gigs by booked dj: %w", err)
	}
	return gigs, nil
}

// TransitionStatus flips the lifecycle state only when the gig is still in
// fromStatus. The WHERE clause is the compare-and-swap: with racing
// writers exactly one update reports an affected row.
func (r *GigRepository) TransitionStatus(ctx context.Context, id string, fromStatus, toStatus models.GigStatus, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = toStatus

	result := r.db.WithContext(ctx).Model(&models.Gig{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition gig status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
