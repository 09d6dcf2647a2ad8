package workers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Gig{}, &models.Post{}))
	return db
}

func TestHandleGigCreatedMaterializesAnnouncement(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	gigRepo := repository.NewGigRepository(db)
	postRepo := repository.NewPostRepository(db)
	worker := NewEventWorker(gigRepo, postRepo, nil, nil, logger.NewNopLogger())

	gig := &models.Gig{
		ID:              uuid.New().String(),
		OwnerBusinessID: "venue-1",
		Title:           "Friday Night",
		Description:     "House all night.",
		FlyerURL:        "https://cdn.example.com/flyer.png",
		Status:          models.GigStatusOpen,
	}
	require.NoError(t, gigRepo.Create(ctx, gig))

	event, err := queue.NewEvent(queue.EventGigCreated, queue.GigEventData{
		GigID:           gig.ID,
		OwnerBusinessID: gig.OwnerBusinessID,
		Title:           gig.Title,
	})
	require.NoError(t, err)

	require.NoError(t, worker.handleGigCreated(ctx, event))

	posts, err := postRepo.ListByAuthor(ctx, "venue-1", 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, models.PostKindGigAnnouncement, post.Kind)
	assert.Equal(t, gig.ID, post.RelatedID)
	assert.Equal(t, gig.Title, post.Title)
	assert.Equal(t, gig.FlyerURL, post.MediaURL)
}

func TestHandleGigCreatedUnknownGig(t *testing.T) {
	db := newWorkerTestDB(t)
	ctx := context.Background()

	gigRepo := repository.NewGigRepository(db)
	postRepo := repository.NewPostRepository(db)
	worker := NewEventWorker(gigRepo, postRepo, nil, nil, logger.NewNopLogger())

	event, err := queue.NewEvent(queue.EventGigCreated, queue.GigEventData{GigID: "missing"})
	require.NoError(t, err)

	// A vanished gig is skipped, not retried forever.
	require.NoError(t, worker.handleGigCreated(ctx, event))

	posts, err := postRepo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
