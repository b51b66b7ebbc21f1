package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

// RestaurantAdapter implements the RestaurantRepository interface
type RestaurantAdapter struct {
	exec postgres.Executor
}

// NewRestaurantAdapter creates a new restaurant adapter
func NewRestaurantAdapter(exec postgres.Executor) repositories.RestaurantRepository {
	return &RestaurantAdapter{exec: exec}
}

// GetByID retrieves a restaurant by ID
func (a *RestaurantAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	query, args, err := dialect.From("restaurants").
		Select(columns("id", "owner_id", "name", "rating", "created_at", "updated_at")...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build restaurant query", err)
	}

	restaurant := &entities.Restaurant{}
	if err := sqlx.GetContext(ctx, a.exec, restaurant, query, args...); err != nil {
		return nil, mapReadError(err, "restaurant", id)
	}
	return restaurant, nil
}

// UpdateRating overwrites the displayed rating
func (a *RestaurantAdapter) UpdateRating(ctx context.Context, id string, rating float64) error {
	query, args, err := dialect.Update("restaurants").
		Set(goqu.Record{
			"rating":     rating,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build restaurant rating update", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update restaurant rating")
	}
	return expectOneRow(result, "restaurant", id)
}

// ProfileAdapter implements the ProfileRepository interface
type ProfileAdapter struct {
	exec postgres.Executor
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(exec postgres.Executor) repositories.ProfileRepository {
	return &ProfileAdapter{exec: exec}
}

// GetByID retrieves a profile by ID
func (a *ProfileAdapter) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	query, args, err := dialect.From("profiles").
		Select(columns("id", "email", "full_name", "created_at", "updated_at")...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build profile query", err)
	}

	profile := &entities.Profile{}
	if err := sqlx.GetContext(ctx, a.exec, profile, query, args...); err != nil {
		return nil, mapReadError(err, "profile", id)
	}
	return profile, nil
}

// OrderAdapter implements the OrderRepository interface
type OrderAdapter struct {
	exec postgres.Executor
}

// NewOrderAdapter creates a new order adapter
func NewOrderAdapter(exec postgres.Executor) repositories.OrderRepository {
	return &OrderAdapter{exec: exec}
}

// GetByID retrieves an order by ID
func (a *OrderAdapter) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	return a.get(ctx, id, false)
}

// GetForUpdate retrieves an order with SELECT ... FOR UPDATE
func (a *OrderAdapter) GetForUpdate(ctx context.Context, id string) (*entities.Order, error) {
	return a.get(ctx, id, true)
}

func (a *OrderAdapter) get(ctx context.Context, id string, lock bool) (*entities.Order, error) {
	ds := dialect.From("orders").
		Select(columns("id", "restaurant_id", "customer_id", "status", "total_amount", "created_at", "updated_at")...).
		Where(goqu.Ex{"id": id})
	if lock {
		ds = ds.ForUpdate(exp.Wait)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build order query", err)
	}

	order := &entities.Order{}
	if err := sqlx.GetContext(ctx, a.exec, order, query, args...); err != nil {
		return nil, mapReadError(err, "order", id)
	}
	return order, nil
}

// UpdateStatus writes a new order status
func (a *OrderAdapter) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) error {
	query, args, err := dialect.Update("orders").
		Set(goqu.Record{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build order status update", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update order status")
	}
	return expectOneRow(result, "order", id)
}
