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

type InterestService struct {
	interestRepo *repository.InterestRepository
	gigRepo      *repository.GigRepository
	profileRepo  *repository.ProfileRepository
	notification *NotificationService
	producer     EventPublisher
	logger       *logger.Logger
}

func NewInterestService(interestRepo *repository.InterestRepository, gigRepo *repository.GigRepository, profileRepo *repository.ProfileRepository, notification *NotificationService, producer EventPublisher, logger *logger.Logger) *InterestService {
	return &InterestService{
		interestRepo: interestRepo,
		gigRepo:      gigRepo,
		profileRepo:  profileRepo,
		notification: notification,
		producer:     producer,
		logger:       logger,
	}
}

// Express records a DJ's interest in an open gig and tells the venue.
// Expressing interest twice is a silent no-op: no second notification,
// no error.
func (s *InterestService) Express(ctx context.Context, gigID, djID string) error {
	dj, err := s.profileRepo.GetByID(ctx, djID)
	if err != nil {
		return err
	}
	if dj == nil {
		return fmt.Errorf("%w: profile %s", ErrNotFound, djID)
	}
	if dj.Role != models.RoleDJ {
		return fmt.Errorf("%w: only djs can express interest", ErrForbidden)
	}

	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return err
	}
	if gig == nil {
		return fmt.Errorf("%w: gig %s", ErrNotFound, gigID)
	}
	if gig.Status != models.GigStatusOpen {
		return fmt.Errorf("%w: gig is no longer open", ErrInvalidState)
	}

	// The insert re-checks the status itself; the read above is only for
	// friendly errors. A booking that commits in between makes the
	// insert a no-op rather than an orphan row.
	inserted, err := s.interestRepo.CreateIfOpen(ctx, gigID, djID)
	if err != nil {
		if errors.Is(err, repository.ErrInterestExists) {
			return nil
		}
		return err
	}
	if !inserted {
		return fmt.Errorf("%w: gig is no longer open", ErrInvalidState)
	}

	message := fmt.Sprintf("%s is interested in your gig %q.", dj.Name, gig.Title)
	if err := s.notification.Notify(ctx, gig.OwnerBusinessID, models.NotificationBookingRequest, message, gigID); err != nil {
		s.logger.WithError(err).Error("Failed to send booking-request notification")
	}

	publishEvent(ctx, s.producer, s.logger, gigID, queue.EventInterestCreated, map[string]string{
		"gig_id": gigID,
		"dj_id":  djID,
	})

	s.logger.WithFields(map[string]interface{}{
		"gig_id": gigID,
		"dj_id":  djID,
	}).Info("Interest expressed")

	return nil
}

// ListInterested returns the interested DJ profiles in the order the
// interests arrived. Only the owning business may look.
func (s *InterestService) ListInterested(ctx context.Context, gigID, callerID string) ([]*models.Profile, error) {
	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, fmt.Errorf("%w: gig %s", ErrNotFound, gigID)
	}
	if gig.OwnerBusinessID != callerID {
		return nil, fmt.Errorf("%w: only the owning business can view applicants", ErrForbidden)
	}

	djIDs, err := s.interestRepo.ListDjIDs(ctx, gigID)
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, len(djIDs))
	for _, djID := range djIDs {
		profile, err := s.profileRepo.GetByID(ctx, djID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

// ListForDJ returns the gigs a DJ has an outstanding interest in.
func (s *InterestService) ListForDJ(ctx context.Context, djID string) ([]*models.Gig, error) {
	gigIDs, err := s.interestRepo.ListGigIDsForDj(ctx, djID)
	if err != nil {
		return nil, err
	}

	gigs := make([]*models.Gig, 0, len(gigIDs))
	for _, gigID := range gigIDs {
		gig, err := s.gigRepo.GetByID(ctx, gigID)
		if err != nil {
			return nil, err
		}
		if gig != nil {
			gigs = append(gigs, gig)
		}
	}
	return gigs, nil
}
