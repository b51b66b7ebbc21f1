package events

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/entities"
)

// hub fans events out to the local subscribers of each channel.
// Delivery never blocks: a subscriber whose buffer is full misses the event.
type hub struct {
	mu          sync.RWMutex
	bufferSize  int
	subscribers map[string]map[chan *entities.NotificationEvent]struct{}
}

func newHub(bufferSize int) *hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &hub{
		bufferSize:  bufferSize,
		subscribers: make(map[string]map[chan *entities.NotificationEvent]struct{}),
	}
}

// add registers a new subscriber and reports whether it is the first on the channel
func (h *hub) add(channel string) (chan *entities.NotificationEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	first := false
	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[chan *entities.NotificationEvent]struct{})
		first = true
	}

	eventChan := make(chan *entities.NotificationEvent, h.bufferSize)
	h.subscribers[channel][eventChan] = struct{}{}
	log.Debug().Str("channel", channel).Int("subscribers", len(h.subscribers[channel])).Msg("subscribed to channel")
	return eventChan, first
}

// remove drops one subscriber and reports whether the channel has none left
func (h *hub) remove(channel string, eventChan chan *entities.NotificationEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, exists := h.subscribers[channel]
	if !exists {
		return false
	}
	if _, ok := subscribers[eventChan]; !ok {
		return false
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(h.subscribers, channel)
		return true
	}
	return false
}

// drop closes every subscriber of the channel
func (h *hub) drop(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for subscriber := range h.subscribers[channel] {
		close(subscriber)
	}
	delete(h.subscribers, channel)
}

func (h *hub) channels() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channels := make([]string, 0, len(h.subscribers))
	for channel := range h.subscribers {
		channels = append(channels, channel)
	}
	return channels
}

func (h *hub) broadcast(channel string, event *entities.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for subscriber := range h.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).
				Msg("subscriber channel full, skipping event")
		}
	}
}

func (h *hub) count(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[channel])
}
