package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/providers"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
)

const feedPublishTimeout = 2 * time.Second

// NotificationFeed pushes committed notifications to realtime subscribers.
// Delivery is at-most-once; failures are logged and counted, never returned.
type NotificationFeed struct {
	bus     providers.EventBus
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewNotificationFeed creates a feed publisher. Both bus and cache may be nil.
func NewNotificationFeed(bus providers.EventBus, cache providers.CacheProvider) *NotificationFeed {
	return &NotificationFeed{bus: bus, cache: cache}
}

// SetMetrics enables publish failure counters
func (f *NotificationFeed) SetMetrics(metrics *observability.Metrics) {
	f.metrics = metrics
}

// Publish sends the notifications produced by generator results. Call it only
// after the transaction that created them has committed.
func (f *NotificationFeed) Publish(ctx context.Context, results ...*GenerationResult) {
	if f == nil {
		return
	}
	for _, result := range results {
		if result == nil || !result.Outcome.Created() {
			continue
		}
		if n := result.CustomerNotification; n != nil {
			f.invalidate(ctx, customerUnreadKey(n.CustomerID))
			f.publish(ctx, entities.NewCustomerNotificationEvent(n))
		}
		if n := result.OwnerNotification; n != nil {
			f.invalidate(ctx, restaurantUnreadKey(n.RestaurantID))
			f.publish(ctx, entities.NewOwnerNotificationEvent(n))
		}
	}
}

func (f *NotificationFeed) publish(ctx context.Context, event *entities.NotificationEvent) {
	if f.bus == nil {
		return
	}

	// the request may already be finishing; the publish must not inherit its cancellation
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), feedPublishTimeout)
	defer cancel()

	channel := providers.GetAudienceChannel(event.Audience, event.RecipientID)
	if err := f.bus.Publish(pubCtx, channel, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("channel", channel).
			Str("event_id", event.ID).
			Msg("failed to publish notification event")
		observability.RecordFeedPublishFailure(ctx, f.metrics, string(event.Audience))
	}
}

func (f *NotificationFeed) invalidate(ctx context.Context, key string) {
	invalidateCount(ctx, f.cache, key)
}
