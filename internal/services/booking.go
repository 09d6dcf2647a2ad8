package services

import (
	"context"
	"fmt"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"gorm.io/gorm"
)

// BookingService is the single arbiter of the Open -> Booked transition.
// The status column is the race guard: with two concurrent booking
// attempts the conditional update lets exactly one through.
type BookingService struct {
	db           *gorm.DB
	gigRepo      *repository.GigRepository
	profileRepo  *repository.ProfileRepository
	notification *NotificationService
	producer     EventPublisher
	logger       *logger.Logger
}

func NewBookingService(db *gorm.DB, gigRepo *repository.GigRepository, profileRepo *repository.ProfileRepository, notification *NotificationService, producer EventPublisher, logger *logger.Logger) *BookingService {
	return &BookingService{
		db:           db,
		gigRepo:      gigRepo,
		profileRepo:  profileRepo,
		notification: notification,
		producer:     producer,
		logger:       logger,
	}
}

type BookDJRequest struct {
	DjID       string `json:"dj_id" binding:"required"`
	AgreedRate int64  `json:"agreed_rate"`
}

// BookDJ awards an open gig to one DJ. The transition, the winner
// assignment and the interest purge commit atomically; the losers learn
// the gig filled, the winner gets a confirmation. Both sets of
// notifications are sent after commit and are best-effort.
func (s *BookingService) BookDJ(ctx context.Context, gigID, callerID string, req *BookDJRequest) (*models.Gig, error) {
	if req.AgreedRate < 0 {
		return nil, fmt.Errorf("%w: agreed rate must not be negative", ErrValidation)
	}

	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, fmt.Errorf("%w: gig %s", ErrNotFound, gigID)
	}
	if gig.OwnerBusinessID != callerID {
		return nil, fmt.Errorf("%w: only the owning business can book a dj", ErrForbidden)
	}

	dj, err := s.profileRepo.GetByID(ctx, req.DjID)
	if err != nil {
		return nil, err
	}
	if dj == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, req.DjID)
	}
	if dj.Role != models.RoleDJ {
		return nil, fmt.Errorf("%w: %s is not a dj", ErrValidation, req.DjID)
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

		ok, err := txGigs.TransitionStatus(ctx, gigID, models.GigStatusOpen, models.GigStatusBooked, map[string]interface{}{
			"booked_dj_id": req.DjID,
			"agreed_rate":  req.AgreedRate,
		})
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

	confirmMessage := fmt.Sprintf("You have been booked for %q.", gig.Title)
	if err := s.notification.Notify(ctx, req.DjID, models.NotificationBookingConfirmed, confirmMessage, gigID); err != nil {
		s.logger.WithError(err).Error("Failed to send booking-confirmed notification")
	}

	filledMessage := fmt.Sprintf("The gig %q has been filled.", gig.Title)
	for _, djID := range interestedDjIDs {
		if djID == req.DjID {
			continue
		}
		if err := s.notification.Notify(ctx, djID, models.NotificationGigFilled, filledMessage, gigID); err != nil {
			s.logger.WithError(err).WithField("dj_id", djID).Error("Failed to send gig-filled notification")
		}
	}

	publishEvent(ctx, s.producer, s.logger, gigID, queue.EventGigBooked, queue.GigEventData{
		GigID:           gigID,
		OwnerBusinessID: gig.OwnerBusinessID,
		Title:           gig.Title,
		BookedDjID:      req.DjID,
	})

	s.logger.WithFields(map[string]interface{}{
		"gig_id": gigID,
		"dj_id":  req.DjID,
	}).Info("Gig booked")

	return s.gigRepo.GetByID(ctx, gigID)
}
