package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gigline/gigline/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newInterestTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Gig{}, &models.Interest{}))
	return db
}

// TestCreateIfOpenGuardsLifecycle drives the interleaving where a gig
// leaves Open between a caller's status check and its interest insert.
// The conditional insert must reject the late write instead of leaving
// an orphan row on a Booked gig.
func TestCreateIfOpenGuardsLifecycle(t *testing.T) {
	db := newInterestTestDB(t)
	ctx := context.Background()

	gigs := NewGigRepository(db)
	interests := NewInterestRepository(db)

	gig := &models.Gig{
		ID:              uuid.New().String(),
		OwnerBusinessID: "venue-1",
		Title:           "Friday Night",
		Date:            time.Now().Add(24 * time.Hour),
		Status:          models.GigStatusOpen,
	}
	require.NoError(t, gigs.Create(ctx, gig))

	inserted, err := interests.CreateIfOpen(ctx, gig.ID, "dj-a")
	require.NoError(t, err)
	assert.True(t, inserted)

	_, err = interests.CreateIfOpen(ctx, gig.ID, "dj-a")
	assert.ErrorIs(t, err, ErrInterestExists)

	// The gig is booked out from under the next caller. Its already
	// validated insert now lands on a closed gig and must not stick.
	ok, err := gigs.TransitionStatus(ctx, gig.ID, models.GigStatusOpen, models.GigStatusBooked, map[string]interface{}{
		"booked_dj_id": "dj-a",
	})
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, interests.DeleteForGig(ctx, gig.ID))

	inserted, err = interests.CreateIfOpen(ctx, gig.ID, "dj-b")
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := interests.CountForGig(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCreateIfOpenUnknownGig(t *testing.T) {
	db := newInterestTestDB(t)

	interests := NewInterestRepository(db)

	inserted, err := interests.CreateIfOpen(context.Background(), "missing", "dj-a")
	require.NoError(t, err)
	assert.False(t, inserted)
}
