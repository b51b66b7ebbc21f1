package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/providers"
)

const defaultHeartbeatInterval = 30 * time.Second

// SSEHandler streams notification events over Server-Sent Events
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	mu        sync.RWMutex
	clients   map[string]int // channel -> open streams
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus, heartbeat time.Duration) *SSEHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}
	return &SSEHandler{
		eventBus:  eventBus,
		heartbeat: heartbeat,
		clients:   make(map[string]int),
	}
}

// StreamCustomerNotifications handles GET /api/stream/customers/{id}/notifications
func (h *SSEHandler) StreamCustomerNotifications(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customer ID")
	if !ok {
		return
	}
	h.stream(w, r, providers.GetCustomerChannel(customerID), "customer_id", customerID)
}

// StreamRestaurantNotifications handles GET /api/stream/restaurants/{id}/notifications
func (h *SSEHandler) StreamRestaurantNotifications(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathID(w, r, "restaurant ID")
	if !ok {
		return
	}
	h.stream(w, r, providers.GetRestaurantChannel(restaurantID), "restaurant_id", restaurantID)
}

// stream holds one subscription for the lifetime of the request. The derived
// context is cancelled on every return path, which releases the subscription.
func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel, idField, id string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eventChan, err := h.eventBus.Subscribe(ctx, channel)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("channel", channel).Msg("failed to subscribe to notification channel")
		respondWithError(w, http.StatusServiceUnavailable, "realtime feed unavailable")
		return
	}

	h.registerClient(channel)
	defer h.unregisterClient(channel)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := h.sendEvent(ctx, w, "", "connected", map[string]interface{}{
		idField:     id,
		"timestamp": time.Now().UTC(),
	}); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Ctx(ctx).Debug().Str("channel", channel).Msg("client disconnected from notification stream")
			return
		case <-ticker.C:
			if err := h.sendEvent(ctx, w, "", "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			}); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := h.sendEvent(ctx, w, event.ID, "notification", event); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) registerClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]++
}

func (h *SSEHandler) unregisterClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]--
	if h.clients[channel] <= 0 {
		delete(h.clients, channel)
	}
}

// sendEvent writes one SSE frame
func (h *SSEHandler) sendEvent(ctx context.Context, w http.ResponseWriter, id, eventType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("event", eventType).Msg("failed to marshal event data")
		return nil
	}

	if id != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", id); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, jsonData)
	return err
}

// GetClientCount returns the number of open streams
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, n := range h.clients {
		count += n
	}
	return count
}
