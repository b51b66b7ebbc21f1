package events

import (
	"context"

	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/providers"
)

// MemoryEventBus delivers events to subscribers in the same process.
// It backs the realtime feed when Redis is disabled.
type MemoryEventBus struct {
	hub *hub
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus(bufferSize int) providers.EventBus {
	return &MemoryEventBus{hub: newHub(bufferSize)}
}

// Publish delivers the event to current subscribers of the channel
func (b *MemoryEventBus) Publish(_ context.Context, channel string, event *entities.NotificationEvent) error {
	b.hub.broadcast(channel, event)
	return nil
}

// Subscribe subscribes to events on a channel until ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error) {
	eventChan, _ := b.hub.add(channel)
	go func() {
		<-ctx.Done()
		b.hub.remove(channel, eventChan)
	}()
	return eventChan, nil
}

// Unsubscribe drops every subscriber of a channel
func (b *MemoryEventBus) Unsubscribe(_ context.Context, channel string) error {
	b.hub.drop(channel)
	return nil
}

// Close drops every subscriber
func (b *MemoryEventBus) Close() error {
	for _, channel := range b.hub.channels() {
		b.hub.drop(channel)
	}
	return nil
}
