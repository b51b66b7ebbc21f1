//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yangonbites/platform/internal/adapters/cache"
	"github.com/yangonbites/platform/internal/adapters/events"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/providers"
)

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient, 8)
	defer eventBus.Close()

	channel := providers.GetCustomerChannel("cust-redis-1")
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := eventBus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx2, channel)
	require.NoError(t, err)

	event := entities.NewCustomerNotificationEvent(&entities.CustomerNotification{
		ID:         "notif-redis-1",
		CustomerID: "cust-redis-1",
		Title:      "Rate your experience",
		Status:     entities.NotificationStatusUnread,
	})
	require.NoError(t, eventBus.Publish(context.Background(), channel, event))

	received1 := waitForNotificationEvent(t, sub1)
	received2 := waitForNotificationEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	require.NotNil(t, received1.CustomerNotification)
	assert.Equal(t, "notif-redis-1", received1.CustomerNotification.ID)

	// a cancelled subscriber stops receiving; the other keeps its stream
	cancel1()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, eventBus.Publish(context.Background(), channel, event))
	waitForNotificationEvent(t, sub2)
}

func TestRedisCacheAdapterIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	adapter := cache.NewRedisAdapter(redisClient)
	ctx := context.Background()

	_, err := adapter.Get(ctx, "notifications:unread:customer:missing")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "notifications:unread:customer:c1", []byte("3"), 30))
	value, err := adapter.Get(ctx, "notifications:unread:customer:c1")
	require.NoError(t, err)
	assert.Equal(t, "3", string(value))

	require.NoError(t, adapter.Delete(ctx, "notifications:unread:customer:c1", "notifications:unread:customer:c2"))
	exists, err := adapter.Exists(ctx, "notifications:unread:customer:c1")
	require.NoError(t, err)
	assert.False(t, exists)
}
