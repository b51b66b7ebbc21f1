package handlers

import (
	"context"
	"net/http"

	"github.com/yangonbites/platform/internal/application/services"
	"github.com/yangonbites/platform/internal/domain/entities"
)

// OrderService defines the order operations used by the handler
type OrderService interface {
	UpdateStatus(ctx context.Context, orderID string, status entities.OrderStatus) (*services.OrderStatusResult, error)
}

// OrderHandler handles order status endpoints
type OrderHandler struct {
	service OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid preparing ready served completed cancelled"`
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "order ID")
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), orderID, entities.OrderStatus(req.Status))
	if err != nil {
		respondWithAppError(w, r, err, "failed to update order status")
		return
	}

	resp := map[string]interface{}{
		"order":           result.Order,
		"previous_status": result.PreviousStatus,
	}
	if result.Notification != nil {
		resp["notification_outcome"] = result.Notification.Outcome
	}
	respondWithJSON(w, http.StatusOK, resp)
}
