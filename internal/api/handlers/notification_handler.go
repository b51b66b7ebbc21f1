package handlers

import (
	"context"
	"net/http"

	"github.com/yangonbites/platform/internal/domain/entities"
)

// NotificationService defines the notification read and update operations used by the handler
type NotificationService interface {
	ListForCustomer(ctx context.Context, customerID string, limit int) ([]*entities.CustomerNotification, error)
	CustomerUnreadCount(ctx context.Context, customerID string) (int, error)
	MarkCustomerRead(ctx context.Context, id string) (*entities.CustomerNotification, error)
	MarkAllCustomerRead(ctx context.Context, customerID string) (int64, error)

	ListForRestaurant(ctx context.Context, restaurantID string, limit int) ([]*entities.OwnerNotification, error)
	RestaurantUnreadCount(ctx context.Context, restaurantID string) (int, error)
	MarkOwnerRead(ctx context.Context, id string) (*entities.OwnerNotification, error)
	MarkAllOwnerRead(ctx context.Context, restaurantID string) (int64, error)
}

// NotificationHandler handles the customer and owner notification inboxes
type NotificationHandler struct {
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListCustomerNotifications handles GET /api/customers/{id}/notifications
func (h *NotificationHandler) ListCustomerNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer ID")
	if !ok {
		return
	}

	limit, ok := parseLimit(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	notifications, err := h.service.ListForCustomer(r.Context(), id, limit)
	if err != nil {
		respondWithAppError(w, r, err, "failed to list notifications")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// CustomerUnreadCount handles GET /api/customers/{id}/notifications/unread-count
func (h *NotificationHandler) CustomerUnreadCount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer ID")
	if !ok {
		return
	}

	count, err := h.service.CustomerUnreadCount(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to count notifications")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkCustomerRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkCustomerRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "notification ID")
	if !ok {
		return
	}

	notification, err := h.service.MarkCustomerRead(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to mark notification read")
		return
	}
	respondWithJSON(w, http.StatusOK, notification)
}

// MarkAllCustomerRead handles POST /api/customers/{id}/notifications/read-all
func (h *NotificationHandler) MarkAllCustomerRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer ID")
	if !ok {
		return
	}

	changed, err := h.service.MarkAllCustomerRead(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to mark notifications read")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"updated": changed})
}

// ListOwnerNotifications handles GET /api/restaurants/{id}/owner-notifications
func (h *NotificationHandler) ListOwnerNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "restaurant ID")
	if !ok {
		return
	}

	limit, ok := parseLimit(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	notifications, err := h.service.ListForRestaurant(r.Context(), id, limit)
	if err != nil {
		respondWithAppError(w, r, err, "failed to list owner notifications")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// OwnerUnreadCount handles GET /api/restaurants/{id}/owner-notifications/unread-count
func (h *NotificationHandler) OwnerUnreadCount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "restaurant ID")
	if !ok {
		return
	}

	count, err := h.service.RestaurantUnreadCount(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to count owner notifications")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkOwnerRead handles PATCH /api/owner-notifications/{id}/read
func (h *NotificationHandler) MarkOwnerRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "notification ID")
	if !ok {
		return
	}

	notification, err := h.service.MarkOwnerRead(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to mark owner notification read")
		return
	}
	respondWithJSON(w, http.StatusOK, notification)
}

// MarkAllOwnerRead handles POST /api/restaurants/{id}/owner-notifications/read-all
func (h *NotificationHandler) MarkAllOwnerRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "restaurant ID")
	if !ok {
		return
	}

	changed, err := h.service.MarkAllOwnerRead(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to mark owner notifications read")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"updated": changed})
}
