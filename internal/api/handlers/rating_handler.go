package handlers

import (
	"context"
	"net/http"

	"github.com/yangonbites/platform/internal/application/services"
	"github.com/yangonbites/platform/internal/domain/entities"
)

// RatingService defines the rating operations used by the handler
type RatingService interface {
	Submit(ctx context.Context, rating *entities.Rating) error
	Update(ctx context.Context, id, customerID string, update services.RatingUpdate) (*entities.Rating, error)
	Delete(ctx context.Context, id, customerID string) error
}

// RatingHandler handles customer rating endpoints
type RatingHandler struct {
	service RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(service RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

type submitRatingRequest struct {
	RestaurantID string  `json:"restaurant_id" validate:"required,uuid"`
	CustomerID   string  `json:"customer_id" validate:"required,uuid"`
	OrderID      *string `json:"order_id,omitempty" validate:"omitempty,uuid"`
	Rating       float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

type updateRatingRequest struct {
	CustomerID   string   `json:"customer_id" validate:"required,uuid"`
	Rating       *float64 `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	RestaurantID *string  `json:"restaurant_id,omitempty" validate:"omitempty,uuid"`
}

// SubmitRating handles POST /api/ratings
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req submitRatingRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rating := &entities.Rating{
		RestaurantID: req.RestaurantID,
		CustomerID:   req.CustomerID,
		OrderID:      req.OrderID,
		Value:        req.Rating,
	}
	if err := h.service.Submit(r.Context(), rating); err != nil {
		respondWithAppError(w, r, err, "failed to submit rating")
		return
	}
	respondWithJSON(w, http.StatusCreated, rating)
}

// UpdateRating handles PATCH /api/ratings/{id}
func (h *RatingHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	ratingID, ok := pathID(w, r, "rating ID")
	if !ok {
		return
	}

	var req updateRatingRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rating, err := h.service.Update(r.Context(), ratingID, req.CustomerID, services.RatingUpdate{
		Value:        req.Rating,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		respondWithAppError(w, r, err, "failed to update rating")
		return
	}
	respondWithJSON(w, http.StatusOK, rating)
}

// DeleteRating handles DELETE /api/ratings/{id}?customer_id=
func (h *RatingHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	ratingID, ok := pathID(w, r, "rating ID")
	if !ok {
		return
	}
	customerID, ok := queryID(w, r, "customer_id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ratingID, customerID); err != nil {
		respondWithAppError(w, r, err, "failed to delete rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
