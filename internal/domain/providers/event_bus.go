package providers

import (
	"context"

	"github.com/yangonbites/platform/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to notification events
type EventBus interface {
	// Publish publishes an event to all subscribers of the channel
	Publish(ctx context.Context, channel string, event *entities.NotificationEvent) error

	// Subscribe subscribes to events on a channel. The subscription is released
	// when ctx is done.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error)

	// Unsubscribe drops every subscriber of a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelCustomerPrefix is the prefix for per-customer notification channels
	EventChannelCustomerPrefix = "notifications:customer:"

	// EventChannelRestaurantPrefix is the prefix for per-restaurant owner notification channels
	EventChannelRestaurantPrefix = "notifications:restaurant:"
)

// GetCustomerChannel returns the channel name for a customer's notifications
func GetCustomerChannel(customerID string) string {
	return EventChannelCustomerPrefix + customerID
}

// GetRestaurantChannel returns the channel name for a restaurant's owner notifications
func GetRestaurantChannel(restaurantID string) string {
	return EventChannelRestaurantPrefix + restaurantID
}

// GetAudienceChannel returns the channel an event for the given audience is published on
func GetAudienceChannel(audience entities.NotificationAudience, recipientID string) string {
	if audience == entities.AudienceRestaurant {
		return GetRestaurantChannel(recipientID)
	}
	return GetCustomerChannel(recipientID)
}
