package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubPublisher records published events instead of talking to kafka.
type stubPublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *stubPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	event, _ := value.(queue.Event)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *stubPublisher) eventTypes() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]queue.EventType, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

func (p *stubPublisher) countType(eventType queue.EventType) int {
	count := 0
	for _, t := range p.eventTypes() {
		if t == eventType {
			count++
		}
	}
	return count
}

type testEnv struct {
	db        *gorm.DB
	publisher *stubPublisher

	profileRepo      *repository.ProfileRepository
	followRepo       *repository.FollowRepository
	gigRepo          *repository.GigRepository
	interestRepo     *repository.InterestRepository
	notificationRepo *repository.NotificationRepository
	postRepo         *repository.PostRepository
	likeRepo         *repository.LikeRepository
	commentRepo      *repository.CommentRepository
	chatRepo         *repository.ChatRepository

	notifications *NotificationService
	directory     *DirectoryService
	social        *SocialService
	gigs          *GigService
	interests     *InterestService
	booking       *BookingService
	feed          *FeedService
	likes         *LikeService
	comments      *CommentService
	chats         *ChatService
}

// newTestEnv wires the full service graph against a file-backed sqlite
// database. Immediate transactions plus a busy timeout keep the
// concurrency tests free of lock-upgrade failures.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Follow{},
		&models.Gig{},
		&models.Interest{},
		&models.Notification{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.Chat{},
		&models.ChatMessage{},
	))

	publisher := &stubPublisher{}
	log := logger.NewNopLogger()

	env := &testEnv{
		db:               db,
		publisher:        publisher,
		profileRepo:      repository.NewProfileRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		gigRepo:          repository.NewGigRepository(db),
		interestRepo:     repository.NewInterestRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		postRepo:         repository.NewPostRepository(db),
		likeRepo:         repository.NewLikeRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		chatRepo:         repository.NewChatRepository(db),
	}

	env.notifications = NewNotificationService(env.notificationRepo, publisher, log)
	env.directory = NewDirectoryService(env.profileRepo, nil, publisher, 0, log)
	env.social = NewSocialService(env.profileRepo, env.followRepo, env.directory, env.notifications, publisher, log)
	env.gigs = NewGigService(db, env.gigRepo, env.interestRepo, env.profileRepo, env.notifications, publisher, log)
	env.interests = NewInterestService(env.interestRepo, env.gigRepo, env.profileRepo, env.notifications, publisher, log)
	env.booking = NewBookingService(db, env.gigRepo, env.profileRepo, env.notifications, publisher, log)
	env.feed = NewFeedService(env.postRepo, env.profileRepo, env.notifications, publisher, log)
	env.likes = NewLikeService(env.likeRepo, env.postRepo, publisher, log)
	env.comments = NewCommentService(env.commentRepo, env.postRepo, env.profileRepo, env.notifications, publisher, log)
	env.chats = NewChatService(env.chatRepo, env.profileRepo, env.notifications, publisher, log)

	return env
}

func (e *testEnv) createProfile(t *testing.T, id string, role models.Role, name string) *models.Profile {
	t.Helper()

	profile := &models.Profile{ID: id, Role: role, Name: name}
	require.NoError(t, e.profileRepo.Upsert(context.Background(), profile))
	return profile
}

// notificationsOfType filters the recipient's notifications down to one type.
func (e *testEnv) notificationsOfType(t *testing.T, recipientID string, notificationType models.NotificationType) []*models.Notification {
	t.Helper()

	all, err := e.notificationRepo.ListForRecipient(context.Background(), recipientID, 0, 100)
	require.NoError(t, err)

	var matched []*models.Notification
	for _, n := range all {
		if n.Type == notificationType {
			matched = append(matched, n)
		}
	}
	return matched
}
