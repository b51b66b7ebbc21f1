package repositories

import (
	"context"

	"github.com/yangonbites/platform/internal/domain/entities"
)

// CustomerNotificationRepository defines the customer-facing notification store
type CustomerNotificationRepository interface {
	Create(ctx context.Context, notification *entities.CustomerNotification) error
	GetByID(ctx context.Context, id string) (*entities.CustomerNotification, error)

	// ListByCustomer returns the most recent notifications first
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entities.CustomerNotification, error)

	MarkRead(ctx context.Context, id string) error

	// MarkAllRead marks every unread notification of the customer and returns how many changed
	MarkAllRead(ctx context.Context, customerID string) (int64, error)

	CountUnread(ctx context.Context, customerID string) (int, error)
}

// OwnerNotificationRepository defines the owner-facing notification store.
// Create returns a conflict error when a notification already exists for the comment.
type OwnerNotificationRepository interface {
	Create(ctx context.Context, notification *entities.OwnerNotification) error
	GetByID(ctx context.Context, id string) (*entities.OwnerNotification, error)
	ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]*entities.OwnerNotification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, restaurantID string) (int64, error)
	CountUnread(ctx context.Context, restaurantID string) (int, error)
}
