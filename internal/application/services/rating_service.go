package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

// RatingUpdate changes the value of a rating and optionally moves it to another restaurant
type RatingUpdate struct {
	Value        *float64
	RestaurantID *string
}

// RatingService handles customer ratings. Every write recomputes the affected
// restaurant ratings in the same transaction.
type RatingService struct {
	uow        repositories.UnitOfWork
	aggregator *RatingAggregator
}

// NewRatingService creates a new rating service
func NewRatingService(uow repositories.UnitOfWork, aggregator *RatingAggregator) *RatingService {
	return &RatingService{uow: uow, aggregator: aggregator}
}

// Submit stores a new rating
func (s *RatingService) Submit(ctx context.Context, rating *entities.Rating) error {
	if !entities.ValidRatingValue(rating.Value) {
		return apperrors.NewValidationError("rating must be between 1 and 5 with at most one decimal")
	}
	if rating.RestaurantID == "" || rating.CustomerID == "" {
		return apperrors.NewValidationError("restaurant_id and customer_id are required")
	}
	if rating.OrderID != nil && *rating.OrderID == "" {
		rating.OrderID = nil
	}
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	rating.CreatedAt = time.Now().UTC()

	return s.uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		repos := tx.Repos()

		if _, err := repos.Restaurants.GetByID(ctx, rating.RestaurantID); err != nil {
			return err
		}
		if rating.OrderID != nil {
			order, err := repos.Orders.GetByID(ctx, *rating.OrderID)
			if err != nil {
				return err
			}
			if order.CustomerID != rating.CustomerID || order.RestaurantID != rating.RestaurantID {
				return apperrors.NewValidationError("order does not belong to this customer and restaurant")
			}
		}

		if err := repos.Ratings.Create(ctx, rating); err != nil {
			return err
		}
		return s.aggregator.Recompute(ctx, repos, rating.RestaurantID)
	})
}

// Update changes a rating owned by customerID
func (s *RatingService) Update(ctx context.Context, id, customerID string, update RatingUpdate) (*entities.Rating, error) {
	if update.Value == nil && update.RestaurantID == nil {
		return nil, apperrors.NewValidationError("nothing to update")
	}
	if update.Value != nil && !entities.ValidRatingValue(*update.Value) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5 with at most one decimal")
	}

	var updated *entities.Rating
	err := s.uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		repos := tx.Repos()

		rating, err := s.ownedRating(ctx, repos, id, customerID)
		if err != nil {
			return err
		}
		previousRestaurant := rating.RestaurantID

		if update.Value != nil {
			rating.Value = *update.Value
		}
		if update.RestaurantID != nil && *update.RestaurantID != rating.RestaurantID {
			if _, err := repos.Restaurants.GetByID(ctx, *update.RestaurantID); err != nil {
				return err
			}
			rating.RestaurantID = *update.RestaurantID
		}

		if err := repos.Ratings.Update(ctx, rating); err != nil {
			return err
		}
		if err := s.aggregator.Recompute(ctx, repos, previousRestaurant, rating.RestaurantID); err != nil {
			return err
		}
		updated = rating
		return nil
	})
	return updated, err
}

// Delete removes a rating owned by customerID
func (s *RatingService) Delete(ctx context.Context, id, customerID string) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		repos := tx.Repos()

		rating, err := s.ownedRating(ctx, repos, id, customerID)
		if err != nil {
			return err
		}
		if err := repos.Ratings.Delete(ctx, id); err != nil {
			return err
		}
		return s.aggregator.Recompute(ctx, repos, rating.RestaurantID)
	})
}

func (s *RatingService) ownedRating(ctx context.Context, repos *repositories.Repositories, id, customerID string) (*entities.Rating, error) {
	rating, err := repos.Ratings.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if rating.CustomerID != customerID {
		return nil, apperrors.NewUnauthorizedError("only the customer who rated can change the rating")
	}
	return rating, nil
}
