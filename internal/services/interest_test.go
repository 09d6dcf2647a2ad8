package services

import (
	"context"
	"testing"

	"github.com/gigline/gigline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressInterest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")

	gig := env.createOpenGig(t, "venue-1", "Friday Night")

	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-a"))

	requests := env.notificationsOfType(t, "venue-1", models.NotificationBookingRequest)
	require.Len(t, requests, 1)
	assert.Equal(t, gig.ID, requests[0].RelatedID)

	// Expressing interest twice stays silent.
	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-a"))
	assert.Len(t, env.notificationsOfType(t, "venue-1", models.NotificationBookingRequest), 1)

	count, err := env.interestRepo.CountForGig(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestExpressInterestGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "venue-2", models.RoleBusiness, "Bar Ten")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")

	gig := env.createOpenGig(t, "venue-1", "Friday Night")

	assert.ErrorIs(t, env.interests.Express(ctx, gig.ID, "venue-2"), ErrForbidden)
	assert.ErrorIs(t, env.interests.Express(ctx, gig.ID, "ghost"), ErrNotFound)
	assert.ErrorIs(t, env.interests.Express(ctx, "missing", "dj-a"), ErrNotFound)

	_, err := env.gigs.CancelGig(ctx, gig.ID, "venue-1")
	require.NoError(t, err)
	assert.ErrorIs(t, env.interests.Express(ctx, gig.ID, "dj-a"), ErrInvalidState)
}

func TestListInterestedKeepsArrivalOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")
	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")
	env.createProfile(t, "dj-b", models.RoleDJ, "DJ B")

	gig := env.createOpenGig(t, "venue-1", "Friday Night")
	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-b"))
	require.NoError(t, env.interests.Express(ctx, gig.ID, "dj-a"))

	profiles, err := env.interests.ListInterested(ctx, gig.ID, "venue-1")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "dj-b", profiles[0].ID)
	assert.Equal(t, "dj-a", profiles[1].ID)

	_, err = env.interests.ListInterested(ctx, gig.ID, "dj-a")
	assert.ErrorIs(t, err, ErrForbidden)

	gigs, err := env.interests.ListForDJ(ctx, "dj-a")
	require.NoError(t, err)
	require.Len(t, gigs, 1)
	assert.Equal(t, gig.ID, gigs[0].ID)
}
