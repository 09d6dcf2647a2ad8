package services

import (
	"context"
	"testing"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.notifications.Notify(ctx, "dj-a", models.NotificationEventUpdate, "Lineup changed.", "gig-1"))
	require.NoError(t, env.notifications.Notify(ctx, "dj-a", models.NotificationMessage, "New message.", "chat-1"))
	require.NoError(t, env.notifications.Notify(ctx, "dj-b", models.NotificationMessage, "New message.", "chat-2"))

	list, err := env.notifications.List(ctx, "dj-a", 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.False(t, n.IsRead)
	}

	unread, err := env.notifications.CountUnread(ctx, "dj-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	assert.Equal(t, 3, env.publisher.countType(queue.EventNotificationCreated))

	marked, err := env.notifications.MarkAllRead(ctx, "dj-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	unread, err = env.notifications.CountUnread(ctx, "dj-a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// dj-b's unread state is untouched.
	unread, err = env.notifications.CountUnread(ctx, "dj-b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// Marking again affects nothing and publishes nothing new.
	marked, err = env.notifications.MarkAllRead(ctx, "dj-a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked)
	assert.Equal(t, 1, env.publisher.countType(queue.EventNotificationsRead))
}
