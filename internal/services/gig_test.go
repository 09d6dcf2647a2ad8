package services

import (
	"context"
	"testing"
	"time"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gigDate() time.Time {
	return time.Now().Add(14 * 24 * time.Hour).Truncate(time.Second)
}

func (e *testEnv) createOpenGig(t *testing.T, ownerID, title string) *models.Gig {
	t.Helper()

	gig, err := e.gigs.CreateGig(context.Background(), ownerID, &CreateGigRequest{
		Title:  title,
		Date:   gigDate(),
		Budget: 500,
	})
	require.NoError(t, err)
	return gig
}

func TestCreateGig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")

	gig, err := env.gigs.CreateGig(ctx, "venue-1", &CreateGigRequest{
		Title:       "Friday Techno Night",
		Description: "Four hour set, house and techno.",
		Date:        gigDate(),
		Budget:      800,
	})
	require.NoError(t, err)

	assert.Equal(t, models.GigStatusOpen, gig.Status)
	assert.Equal(t, "venue-1", gig.OwnerBusinessID)
	assert.Empty(t, gig.BookedDjID)
	assert.Equal(t, 1, env.publisher.countType(queue.EventGigCreated))
}

func TestCreateGigValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")

	_, err := env.gigs.CreateGig(ctx, "venue-1", &CreateGigRequest{Date: gigDate()})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.gigs.CreateGig(ctx, "venue-1", &CreateGigRequest{Title: "No Date"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.gigs.CreateGig(ctx, "venue-1", &CreateGigRequest{Title: "Bad Budget", Date: gigDate(), Budget: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.gigs.CreateGig(ctx, "dj-a", &CreateGigRequest{Title: "Wrong Role", Date: gigDate()})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.gigs.CreateGig(ctx, "ghost", &CreateGigRequest{Title: "No Owner", Date: gigDate()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelGig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")
	env.createProfile(t, "dj-b", models.RoleDJ, "DJ B")

	gig := env.createOpenGig(t, "venue-1", "Saturday Session")
	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-a"))
	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-b"))

	_, err := env.gigs.CancelGig(ctx, gig.ID, "dj-a")
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := env.gigs.CancelGig(ctx, gig.ID, "venue-1")
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusCancelled, cancelled.Status)

	// Interested DJs hear about the cancellation, then their interests go.
	assert.Len(t, env.notificationsOfType(t, "dj-a", models.NotificationEventUpdate), 1)
	assert.Len(t, env.notificationsOfType(t, "dj-b", models.NotificationEventUpdate), 1)

	count, err := env.interestRepo.CountForGig(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = env.gigs.CancelGig(ctx, gig.ID, "venue-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelGigAfterBookingLeavesBookingIntact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")

	gig := env.createOpenGig(t, "venue-1", "Saturday Session")
	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-a"))

	_, err := env.booking.BookDJ(ctx, gig.ID, "venue-1", &BookDJRequest{DjID: "dj-a", AgreedRate: 400})
	require.NoError(t, err)

	// A cancel landing after the booking rolls back wholesale: the
	// transition fails and no other write from the attempt survives.
	_, err = env.gigs.CancelGig(ctx, gig.ID, "venue-1")
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := env.gigRepo.GetByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusBooked, stored.Status)
	assert.Equal(t, "dj-a", stored.BookedDjID)
	assert.Zero(t, env.publisher.countType(queue.EventGigCancelled))
}

func TestCompleteGig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")

	gig := env.createOpenGig(t, "venue-1", "Warehouse Party")

	// An open gig cannot be completed.
	_, err := env.gigs.CompleteGig(ctx, gig.ID, "venue-1")
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-a"))
	_, err = env.booking.BookDJ(ctx, gig.ID, "venue-1", &BookDJRequest{DjID: "dj-a", AgreedRate: 400})
	require.NoError(t, err)

	completed, err := env.gigs.CompleteGig(ctx, gig.ID, "venue-1")
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusCompleted, completed.Status)
	assert.Equal(t, "dj-a", completed.BookedDjID)

	// Completing again is a safe retry.
	again, err := env.gigs.CompleteGig(ctx, gig.ID, "venue-1")
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusCompleted, again.Status)
}

func TestGetGigIncludesInterestCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")

	gig := env.createOpenGig(t, "venue-1", "Rooftop Set")
	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-a"))

	detail, err := env.gigs.GetGig(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.InterestCount)

	_, err = env.gigs.GetGig(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListGigBuckets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")

	open := env.createOpenGig(t, "venue-1", "Open Slot")
	booked := env.createOpenGig(t, "venue-1", "Booked Slot")

	require.NoError(t, env.interests.Express(ctx, booked.ID, "dj-a"))
	_, err := env.booking.BookDJ(ctx, booked.ID, "venue-1", &BookDJRequest{DjID: "dj-a"})
	require.NoError(t, err)

	openGigs, err := env.gigs.ListOpen(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, openGigs, 1)
	assert.Equal(t, open.ID, openGigs[0].ID)

	venueGigs, err := env.gigs.ListForVenue(ctx, "venue-1", 0, 10)
	require.NoError(t, err)
	assert.Len(t, venueGigs, 2)

	djGigs, err := env.gigs.ListForDJ(ctx, "dj-a", models.GigStatusBooked, 0, 10)
	require.NoError(t, err)
	require.Len(t, djGigs, 1)
	assert.Equal(t, booked.ID, djGigs[0].ID)

	_, err = env.gigs.ListForDJ(ctx, "dj-a", models.GigStatusOpen, 0, 10)
	assert.ErrorIs(t, err, ErrValidation)
}
