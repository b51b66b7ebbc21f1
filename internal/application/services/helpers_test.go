package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yangonbites/platform/internal/adapters/memory"
	"github.com/yangonbites/platform/internal/application/services"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/providers"
	"github.com/yangonbites/platform/pkg/config"
)

const (
	restaurantID = "rest-1"
	ownerID      = "owner-1"
	postID       = "post-1"
	postTitle    = "Monsoon menu is here"
	alice        = "cust-alice"
	bob          = "cust-bob"
)

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.NotificationEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error) {
	args := m.Called(ctx, channel)
	return args.Get(0).(<-chan *entities.NotificationEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return m.Called(ctx, channel).Error(0)
}

func (m *MockEventBus) Close() error {
	return nil
}

// mapCache is a CacheProvider backed by a map
type mapCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	deletes []string
}

func newMapCache() *mapCache {
	return &mapCache{values: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

func (c *mapCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// testEnv wires the services over a seeded memory store
type testEnv struct {
	store         *memory.Store
	generator     *services.NotificationGenerator
	comments      *services.CommentService
	orders        *services.OrderService
	ratings       *services.RatingService
	notifications *services.NotificationService
	cache         *mapCache
}

func newTestEnv(t *testing.T, bus providers.EventBus) *testEnv {
	t.Helper()

	store := memory.NewStore()
	now := time.Now().UTC()
	store.AddRestaurant(entities.Restaurant{ID: restaurantID, OwnerID: ownerID, Name: "Yangon Bistro", Rating: floatPtr(4.0), CreatedAt: now, UpdatedAt: now})
	store.AddPost(entities.BlogPost{ID: postID, RestaurantID: restaurantID, Title: postTitle, IsPublished: true, CreatedAt: now, UpdatedAt: now})
	store.AddProfile(entities.Profile{ID: alice, Email: "alice@example.com", FullName: strPtr("Alice Tun")})
	store.AddProfile(entities.Profile{ID: bob, Email: "bob.k@example.com"})
	store.AddProfile(entities.Profile{ID: ownerID, Email: "owner@yangonbistro.example", FullName: strPtr("Daw Mya")})

	cache := newMapCache()
	generator := services.NewNotificationGenerator()
	feed := services.NewNotificationFeed(bus, cache)

	return &testEnv{
		store:     store,
		generator: generator,
		comments:  services.NewCommentService(store, generator, feed),
		orders:    services.NewOrderService(store, generator, feed),
		ratings:   services.NewRatingService(store, services.NewRatingAggregator()),
		notifications: services.NewNotificationService(store.Repos(), cache, config.NotificationConfig{
			DefaultListLimit:   20,
			MaxListLimit:       100,
			UnreadCacheTTLSecs: 60,
		}),
		cache: cache,
	}
}

func (e *testEnv) customerNotifications(t *testing.T, customerID string) []*entities.CustomerNotification {
	t.Helper()
	list, err := e.store.Repos().CustomerNotifications.ListByCustomer(context.Background(), customerID, 1000)
	if err != nil {
		t.Fatalf("list customer notifications: %v", err)
	}
	return list
}

func (e *testEnv) ownerNotifications(t *testing.T) []*entities.OwnerNotification {
	t.Helper()
	list, err := e.store.Repos().OwnerNotifications.ListByRestaurant(context.Background(), restaurantID, 1000)
	if err != nil {
		t.Fatalf("list owner notifications: %v", err)
	}
	return list
}

func (e *testEnv) restaurantRating(t *testing.T) *float64 {
	t.Helper()
	restaurant, err := e.store.Repos().Restaurants.GetByID(context.Background(), restaurantID)
	if err != nil {
		t.Fatalf("get restaurant: %v", err)
	}
	return restaurant.Rating
}

func repeat(s string, n int) string { return strings.Repeat(s, n) }
