package repositories

import (
	"context"

	"github.com/yangonbites/platform/internal/domain/entities"
)

// RestaurantRepository defines the restaurant operations used by the notification subsystem
type RestaurantRepository interface {
	// GetByID retrieves a restaurant by ID
	GetByID(ctx context.Context, id string) (*entities.Restaurant, error)

	// UpdateRating overwrites the displayed rating
	UpdateRating(ctx context.Context, id string, rating float64) error
}

// ProfileRepository defines read access to user profiles
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Profile, error)
}

// OrderRepository defines the order operations used by the notification subsystem
type OrderRepository interface {
	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id string) (*entities.Order, error)

	// GetForUpdate retrieves an order and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, id string) (*entities.Order, error)

	// UpdateStatus writes a new status for the order
	UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) error
}
