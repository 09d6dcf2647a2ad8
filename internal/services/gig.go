package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GigService struct {
	db           *gorm.DB
	gigRepo      *repository.GigRepository
	interestRepo *repository.InterestRepository
	profileRepo  *repository.ProfileRepository
	notification *NotificationService
	producer     EventPublisher
	logger       *logger.Logger
}

func NewGigService(db *gorm.DB, gigRepo *repository.GigRepository, interestRepo *repository.InterestRepository, profileRepo *repository.ProfileRepository, notification *NotificationService, producer EventPublisher, logger *logger.Logger) *GigService {
	return &GigService{
		db:           db,
		gigRepo:      gigRepo,
		interestRepo: interestRepo,
		profileRepo:  profileRepo,
		notification: notification,
		producer:     producer,
		logger:       logger,
	}
}

type CreateGigRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Genres      string    `json:"genres"`
	Date        time.Time `json:"date" binding:"required"`
	Budget      int64     `json:"budget"`
	FlyerURL    string    `json:"flyer_url"`
}

// GigDetail pairs a gig with its current interest count.
type GigDetail struct {
	*models.Gig
	InterestCount int64 `json:"interest_count"`
}

// CreateGig posts a new listing. Status is always forced to Open here;
// there is no way to create a gig in any later lifecycle state.
func (s *GigService) CreateGig(ctx context.Context, ownerBusinessID string, req *CreateGigRequest) (*models.Gig, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if req.Budget < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}

	owner, err := s.profileRepo.GetByID(ctx, ownerBusinessID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, ownerBusinessID)
	}
	if owner.Role != models.RoleBusiness {
		return nil, fmt.Errorf("%w: only business accounts can post gigs", ErrForbidden)
	}

	gig := &models.Gig{
		ID:              uuid.New().String(),
		OwnerBusinessID: ownerBusinessID,
		Title:           req.Title,
		Description:     req.Description,
		Genres:          req.Genres,
		Date:            req.Date,
		Budget:          req.Budget,
		FlyerURL:        req.FlyerURL,
		Status:          models.GigStatusOpen,
	}

	if err := s.gigRepo.Create(ctx, gig); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.producer, s.logger, gig.ID, queue.EventGigCreated, queue.GigEventData{
		GigID:           gig.ID,
		OwnerBusinessID: gig.OwnerBusinessID,
		Title:           gig.Title,
	})

	s.logger.WithFields(map[string]interface{}{
		"gig_id":   gig.ID,
		"owner_id": ownerBusinessID,
	}).Info("Gig created")

	return gig, nil
}

// CancelGig retires an Open listing. The transition and the interest
// purge commit atomically; interested DJs are told the gig is off after
// commit. Cancelling a gig that has already left Open is rejected: a
// booked gig is a commitment.
func (s *GigService) CancelGig(ctx context.Context, gigID, callerID string) (*models.Gig, error) {
	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, fmt.Errorf("%w: gig %s", ErrNotFound, gigID)
	}
	if gig.OwnerBusinessID != callerID {
		return nil, fmt.Errorf("%w: only the owning business can cancel a gig", ErrForbidden)
	}

	var interestedDjIDs []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txGigs := repository.NewGigRepository(tx)
		txInterests := repository.NewInterestRepository(tx)

		djIDs, err := txInterests.ListDjIDs(ctx, gigID)
		if err != nil {
			return err
		}
		interestedDjIDs = djIDs

		ok, err := txGigs.TransitionStatus(ctx, gigID, models.GigStatusOpen, models.GigStatusCancelled, nil)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: gig is no longer open", ErrInvalidState)
		}

		return txInterests.DeleteForGig(ctx, gigID)
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("The gig %q has been cancelled.", gig.Title)
	for _, djID := range interestedDjIDs {
		if err := s.notification.Notify(ctx, djID, models.NotificationEventUpdate, message, gigID); err != nil {
			s.logger.WithError(err).WithField("dj_id", djID).Error("Failed to send cancellation notification")
		}
	}

	publishEvent(ctx, s.producer, s.logger, gigID, queue.EventGigCancelled, queue.GigEventData{
		GigID:           gigID,
		OwnerBusinessID: gig.OwnerBusinessID,
		Title:           gig.Title,
	})

	return s.gigRepo.GetByID(ctx, gigID)
}

// CompleteGig marks a booked gig as played. Completing an already
// Completed gig is a no-op so the call is safe to retry.
func (s *GigService) CompleteGig(ctx context.Context, gigID, callerID string) (*models.Gig, error) {
	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, fmt.Errorf("%w: gig %s", ErrNotFound, gigID)
	}
	if gig.OwnerBusinessID != callerID {
		return nil, fmt.Errorf("%w: only the owning business can complete a gig", ErrForbidden)
	}
	if gig.Status == models.GigStatusCompleted {
		return gig, nil
	}

	ok, err := s.gigRepo.TransitionStatus(ctx, gigID, models.GigStatusBooked, models.GigStatusCompleted, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: only booked gigs can be completed", ErrInvalidState)
	}

	publishEvent(ctx, s.producer, s.logger, gigID, queue.EventGigCompleted, queue.GigEventData{
		GigID:           gigID,
		OwnerBusinessID: gig.OwnerBusinessID,
		Title:           gig.Title,
		BookedDjID:      gig.BookedDjID,
	})

	return s.gigRepo.GetByID(ctx, gigID)
}

func (s *GigService) GetGig(ctx context.Context, gigID string) (*GigDetail, error) {
	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, fmt.Errorf("%w: gig %s", ErrNotFound, gigID)
	}

	count, err := s.interestRepo.CountForGig(ctx, gigID)
	if err != nil {
		return nil, err
	}

	return &GigDetail{Gig: gig, InterestCount: count}, nil
}

func (s *GigService) ListOpen(ctx context.Context, offset, limit int) ([]*models.Gig, error) {
	return s.gigRepo.ListByStatus(ctx, models.GigStatusOpen, offset, limit)
}

func (s *GigService) ListForVenue(ctx context.Context, ownerBusinessID string, offset, limit int) ([]*models.Gig, error) {
	return s.gigRepo.ListByOwner(ctx, ownerBusinessID, offset, limit)
}

// ListForDJ returns the DJ's booked and completed gigs.
func (s *GigService) ListForDJ(ctx context.Context, djID string, status models.GigStatus, offset, limit int) ([]*models.Gig, error) {
	switch status {
	case models.GigStatusBooked, models.GigStatusCompleted:
	default:
		return nil, fmt.Errorf("%w: unsupported status filter %q", ErrValidation, status)
	}
	return s.gigRepo.ListByBookedDj(ctx, djID, status, offset, limit)
}
