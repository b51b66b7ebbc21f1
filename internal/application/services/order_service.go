package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

// OrderStatusResult is the updated order together with the rating prompt outcome
type OrderStatusResult struct {
	Order          *entities.Order
	PreviousStatus entities.OrderStatus
	Notification   *GenerationResult
}

// OrderService handles order status transitions
type OrderService struct {
	uow       repositories.UnitOfWork
	generator *NotificationGenerator
	feed      *NotificationFeed
}

// NewOrderService creates a new order service
func NewOrderService(uow repositories.UnitOfWork, generator *NotificationGenerator, feed *NotificationFeed) *OrderService {
	return &OrderService{uow: uow, generator: generator, feed: feed}
}

// GetByID retrieves an order
func (s *OrderService) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	return s.uow.Repos().Orders.GetByID(ctx, id)
}

// UpdateStatus writes the new status and, inside the same transaction, prompts the
// customer for a rating when the order has just been completed or served.
// Writing the current status again is allowed and prompts nothing.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status entities.OrderStatus) (*OrderStatusResult, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("invalid order status: " + string(status))
	}

	result := &OrderStatusResult{}
	err := s.uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		repos := tx.Repos()

		// the row lock makes a concurrent transition see this one's status as old
		order, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		result.PreviousStatus = order.Status

		if err := repos.Orders.UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}
		order.Status = status
		result.Order = order

		spErr := tx.Savepoint(ctx, "rating_prompt", func(ctx context.Context) error {
			generated, err := s.generator.OnOrderStatusChanged(ctx, repos, order, result.PreviousStatus)
			result.Notification = generated
			return err
		})
		if spErr != nil {
			result.Notification = nil
			log.Ctx(ctx).Warn().Err(spErr).
				Str("trigger", TriggerOrderStatus).
				Str("order_id", orderID).
				Msg("rating prompt rolled back, status change kept")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, result.Notification)
	return result, nil
}
