package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

var customerNotificationColumns = columns(
	"id", "customer_id", "order_id", "title", "message", "status",
	"post_id", "reply_content", "restaurant_name", "created_at",
)

var ownerNotificationColumns = columns(
	"id", "restaurant_id", "customer_id", "post_id", "comment_id",
	"title", "message", "status", "comment_content", "created_at",
)

// CustomerNotificationAdapter implements the CustomerNotificationRepository interface
type CustomerNotificationAdapter struct {
	exec postgres.Executor
}

// NewCustomerNotificationAdapter creates a new customer notification adapter
func NewCustomerNotificationAdapter(exec postgres.Executor) repositories.CustomerNotificationRepository {
	return &CustomerNotificationAdapter{exec: exec}
}

// Create inserts a customer notification
func (a *CustomerNotificationAdapter) Create(ctx context.Context, n *entities.CustomerNotification) error {
	record := goqu.Record{
		"id":              n.ID,
		"customer_id":     n.CustomerID,
		"order_id":        nullString(n.OrderID),
		"title":           n.Title,
		"message":         n.Message,
		"status":          string(n.Status),
		"post_id":         nullString(n.PostID),
		"reply_content":   nullString(n.ReplyContent),
		"restaurant_name": nullString(n.RestaurantName),
		"created_at":      n.CreatedAt,
	}

	query, args, err := dialect.Insert("customer_notifications").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build customer notification insert", err)
	}

	if _, err := a.exec.ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err, "failed to create customer notification")
	}
	return nil
}

// GetByID retrieves a customer notification by ID
func (a *CustomerNotificationAdapter) GetByID(ctx context.Context, id string) (*entities.CustomerNotification, error) {
	query, args, err := dialect.From("customer_notifications").
		Select(customerNotificationColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build customer notification query", err)
	}

	n := &entities.CustomerNotification{}
	if err := sqlx.GetContext(ctx, a.exec, n, query, args...); err != nil {
		return nil, mapReadError(err, "notification", id)
	}
	return n, nil
}

// ListByCustomer returns the newest notifications first
func (a *CustomerNotificationAdapter) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entities.CustomerNotification, error) {
	query, args, err := dialect.From("customer_notifications").
		Select(customerNotificationColumns...).
		Where(goqu.Ex{"customer_id": customerID}).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build customer notification list", err)
	}

	list := []*entities.CustomerNotification{}
	if err := sqlx.SelectContext(ctx, a.exec, &list, query, args...); err != nil {
		return nil, mapQueryError(err, "failed to list customer notifications")
	}
	return list, nil
}

// MarkRead marks a single notification as read
func (a *CustomerNotificationAdapter) MarkRead(ctx context.Context, id string) error {
	return markRead(ctx, a.exec, "customer_notifications", "notification", id)
}

// MarkAllRead marks every unread notification of a customer as read
func (a *CustomerNotificationAdapter) MarkAllRead(ctx context.Context, customerID string) (int64, error) {
	return markAllRead(ctx, a.exec, "customer_notifications", goqu.Ex{"customer_id": customerID})
}

// CountUnread counts unread notifications of a customer
func (a *CustomerNotificationAdapter) CountUnread(ctx context.Context, customerID string) (int, error) {
	return countUnread(ctx, a.exec, "customer_notifications", goqu.Ex{"customer_id": customerID})
}

// OwnerNotificationAdapter implements the OwnerNotificationRepository interface
type OwnerNotificationAdapter struct {
	exec postgres.Executor
}

// NewOwnerNotificationAdapter creates a new owner notification adapter
func NewOwnerNotificationAdapter(exec postgres.Executor) repositories.OwnerNotificationRepository {
	return &OwnerNotificationAdapter{exec: exec}
}

// Create inserts an owner notification. The comment_id unique constraint maps to a conflict.
func (a *OwnerNotificationAdapter) Create(ctx context.Context, n *entities.OwnerNotification) error {
	record := goqu.Record{
		"id":              n.ID,
		"restaurant_id":   n.RestaurantID,
		"customer_id":     n.CustomerID,
		"post_id":         n.PostID,
		"comment_id":      n.CommentID,
		"title":           n.Title,
		"message":         n.Message,
		"status":          string(n.Status),
		"comment_content": n.CommentContent,
		"created_at":      n.CreatedAt,
	}

	query, args, err := dialect.Insert("owner_notifications").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build owner notification insert", err)
	}

	if _, err := a.exec.ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err, "failed to create owner notification")
	}
	return nil
}

// GetByID retrieves an owner notification by ID
func (a *OwnerNotificationAdapter) GetByID(ctx context.Context, id string) (*entities.OwnerNotification, error) {
	query, args, err := dialect.From("owner_notifications").
		Select(ownerNotificationColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build owner notification query", err)
	}

	n := &entities.OwnerNotification{}
	if err := sqlx.GetContext(ctx, a.exec, n, query, args...); err != nil {
		return nil, mapReadError(err, "owner notification", id)
	}
	return n, nil
}

// ListByRestaurant returns the newest notifications first
func (a *OwnerNotificationAdapter) ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]*entities.OwnerNotification, error) {
	query, args, err := dialect.From("owner_notifications").
		Select(ownerNotificationColumns...).
		Where(goqu.Ex{"restaurant_id": restaurantID}).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build owner notification list", err)
	}

	list := []*entities.OwnerNotification{}
	if err := sqlx.SelectContext(ctx, a.exec, &list, query, args...); err != nil {
		return nil, mapQueryError(err, "failed to list owner notifications")
	}
	return list, nil
}

// MarkRead marks a single owner notification as read
func (a *OwnerNotificationAdapter) MarkRead(ctx context.Context, id string) error {
	return markRead(ctx, a.exec, "owner_notifications", "owner notification", id)
}

// MarkAllRead marks every unread notification of a restaurant as read
func (a *OwnerNotificationAdapter) MarkAllRead(ctx context.Context, restaurantID string) (int64, error) {
	return markAllRead(ctx, a.exec, "owner_notifications", goqu.Ex{"restaurant_id": restaurantID})
}

// CountUnread counts unread notifications of a restaurant
func (a *OwnerNotificationAdapter) CountUnread(ctx context.Context, restaurantID string) (int, error) {
	return countUnread(ctx, a.exec, "owner_notifications", goqu.Ex{"restaurant_id": restaurantID})
}

// markRead is idempotent: marking an already read row still matches it
func markRead(ctx context.Context, exec postgres.Executor, table, entity, id string) error {
	query, args, err := dialect.Update(table).
		Set(goqu.Record{"status": string(entities.NotificationStatusRead)}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to build %s read update", entity), err)
	}

	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return mapQueryError(err, fmt.Sprintf("failed to mark %s read", entity))
	}
	return expectOneRow(result, entity, id)
}

func markAllRead(ctx context.Context, exec postgres.Executor, table string, owner goqu.Ex) (int64, error) {
	where := goqu.Ex{"status": string(entities.NotificationStatusUnread)}
	for k, v := range owner {
		where[k] = v
	}

	query, args, err := dialect.Update(table).
		Set(goqu.Record{"status": string(entities.NotificationStatusRead)}).
		Where(where).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build mark all read update", err)
	}

	var result sql.Result
	if result, err = exec.ExecContext(ctx, query, args...); err != nil {
		return 0, mapQueryError(err, "failed to mark notifications read")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to read affected rows", err)
	}
	return affected, nil
}

func countUnread(ctx context.Context, exec postgres.Executor, table string, owner goqu.Ex) (int, error) {
	where := goqu.Ex{"status": string(entities.NotificationStatusUnread)}
	for k, v := range owner {
		where[k] = v
	}

	query, args, err := dialect.From(table).
		Select(goqu.COUNT(goqu.Star())).
		Where(where).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build unread count query", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, exec, &count, query, args...); err != nil {
		return 0, mapQueryError(err, "failed to count unread notifications")
	}
	return count, nil
}
