package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

// RatingAdapter implements the RatingRepository interface
type RatingAdapter struct {
	exec postgres.Executor
}

// NewRatingAdapter creates a new rating adapter
func NewRatingAdapter(exec postgres.Executor) repositories.RatingRepository {
	return &RatingAdapter{exec: exec}
}

// Create inserts a rating
func (a *RatingAdapter) Create(ctx context.Context, rating *entities.Rating) error {
	record := goqu.Record{
		"id":            rating.ID,
		"restaurant_id": rating.RestaurantID,
		"customer_id":   rating.CustomerID,
		"order_id":      nullString(rating.OrderID),
		"rating":        rating.Value,
		"created_at":    rating.CreatedAt,
	}

	query, args, err := dialect.Insert("ratings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating insert query", err)
	}

	if _, err := a.exec.ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err, "failed to create rating")
	}
	return nil
}

// GetByID retrieves a rating by ID
func (a *RatingAdapter) GetByID(ctx context.Context, id string) (*entities.Rating, error) {
	return a.get(ctx, id, false)
}

// GetForUpdate retrieves a rating with SELECT ... FOR UPDATE
func (a *RatingAdapter) GetForUpdate(ctx context.Context, id string) (*entities.Rating, error) {
	return a.get(ctx, id, true)
}

func (a *RatingAdapter) get(ctx context.Context, id string, lock bool) (*entities.Rating, error) {
	ds := dialect.From("ratings").
		Select(columns("id", "restaurant_id", "customer_id", "order_id", "rating", "created_at")...).
		Where(goqu.Ex{"id": id})
	if lock {
		ds = ds.ForUpdate(exp.Wait)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build rating query", err)
	}

	rating := &entities.Rating{}
	if err := sqlx.GetContext(ctx, a.exec, rating, query, args...); err != nil {
		return nil, mapReadError(err, "rating", id)
	}
	return rating, nil
}

// Update persists the rating value and restaurant reference
func (a *RatingAdapter) Update(ctx context.Context, rating *entities.Rating) error {
	query, args, err := dialect.Update("ratings").
		Set(goqu.Record{
			"restaurant_id": rating.RestaurantID,
			"rating":        rating.Value,
		}).
		Where(goqu.Ex{"id": rating.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating update query", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update rating")
	}
	return expectOneRow(result, "rating", rating.ID)
}

// Delete removes a rating
func (a *RatingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := dialect.Delete("ratings").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating delete query", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return mapQueryError(err, "failed to delete rating")
	}
	return expectOneRow(result, "rating", id)
}

// Exists reports whether a rating exists for the (restaurant, customer, order) triple.
// A nil orderID matches ratings without an order.
func (a *RatingAdapter) Exists(ctx context.Context, restaurantID, customerID string, orderID *string) (bool, error) {
	where := goqu.Ex{
		"restaurant_id": restaurantID,
		"customer_id":   customerID,
		"order_id":      nil,
	}
	if orderID != nil {
		where["order_id"] = *orderID
	}

	query, args, err := dialect.From("ratings").
		Select(goqu.L("1")).
		Where(where).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build rating exists query", err)
	}

	var found []int
	if err := sqlx.SelectContext(ctx, a.exec, &found, query, args...); err != nil {
		return false, mapQueryError(err, "failed to check rating existence")
	}
	return len(found) > 0, nil
}

// TotalsForRestaurant sums ratings in tenths so the mean can be rounded exactly
func (a *RatingAdapter) TotalsForRestaurant(ctx context.Context, restaurantID string) (entities.RatingTotals, error) {
	query, args, err := dialect.From("ratings").
		Select(
			goqu.L("COALESCE(SUM(ROUND(rating * 10)), 0)::bigint").As("sum_tenths"),
			goqu.COUNT(goqu.Star()).As("count"),
		).
		Where(goqu.Ex{"restaurant_id": restaurantID}).
		ToSQL()
	if err != nil {
		return entities.RatingTotals{}, apperrors.NewInternalError("failed to build rating totals query", err)
	}

	var totals entities.RatingTotals
	if err := sqlx.GetContext(ctx, a.exec, &totals, query, args...); err != nil {
		return entities.RatingTotals{}, mapQueryError(err, "failed to aggregate ratings")
	}
	return totals, nil
}
