package services

import (
	"context"
	"testing"

	"github.com/gigline/gigline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.directory.Sync(ctx, &SyncProfileRequest{
		ID:   "dj-a",
		Role: models.RoleDJ,
		Name: "DJ A",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDJ, profile.Role)

	// A re-sync updates the projection but keeps the follower count.
	env.createProfile(t, "listener-1", models.RoleListener, "Listener One")
	require.NoError(t, env.social.Follow(ctx, "listener-1", "dj-a"))

	profile, err = env.directory.Sync(ctx, &SyncProfileRequest{
		ID:        "dj-a",
		Role:      models.RoleDJ,
		Name:      "DJ A Renamed",
		AvatarURL: "https://cdn.example.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "DJ A Renamed", profile.Name)
	assert.Equal(t, int64(1), profile.FollowerCount)
}

func TestSyncProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.directory.Sync(ctx, &SyncProfileRequest{ID: "u1", Role: "admin", Name: "X"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.directory.Sync(ctx, &SyncProfileRequest{Role: models.RoleDJ, Name: "X"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.directory.Sync(ctx, &SyncProfileRequest{ID: "u1", Role: models.RoleDJ})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")

	profile, err := env.directory.Get(ctx, "venue-1")
	require.NoError(t, err)
	assert.Equal(t, "Club Nine", profile.Name)

	_, err = env.directory.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createProfile(t, "dj-a", models.RoleDJ, "DJ A")
	env.createProfile(t, "dj-b", models.RoleDJ, "DJ B")
	env.createProfile(t, "venue-1", models.RoleBusiness, "Club Nine")

	djs, err := env.directory.ListByRole(ctx, models.RoleDJ, 0, 10)
	require.NoError(t, err)
	assert.Len(t, djs, 2)

	venues, err := env.directory.ListByRole(ctx, models.RoleBusiness, 0, 10)
	require.NoError(t, err)
	assert.Len(t, venues, 1)
}
