package repositories

import (
	"context"

	"github.com/yangonbites/platform/internal/domain/entities"
)

// RatingRepository defines the interface for customer rating operations
type RatingRepository interface {
	// Create inserts a rating; a duplicate (restaurant, customer, order) returns a conflict error
	Create(ctx context.Context, rating *entities.Rating) error

	// GetByID retrieves a rating by ID
	GetByID(ctx context.Context, id string) (*entities.Rating, error)

	// GetForUpdate retrieves a rating and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, id string) (*entities.Rating, error)

	// Update persists the rating value and restaurant reference
	Update(ctx context.Context, rating *entities.Rating) error

	// Delete removes a rating
	Delete(ctx context.Context, id string) error

	// Exists reports whether a rating exists for the (restaurant, customer, order) triple
	Exists(ctx context.Context, restaurantID, customerID string, orderID *string) (bool, error)

	// TotalsForRestaurant aggregates every rating of a restaurant
	TotalsForRestaurant(ctx context.Context, restaurantID string) (entities.RatingTotals, error)
}
