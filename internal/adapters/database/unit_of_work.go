package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

// UnitOfWork runs repository calls inside a PostgreSQL transaction
type UnitOfWork struct {
	client  *postgres.Client
	repos   *repositories.Repositories
	metrics *observability.Metrics
}

// NewUnitOfWork creates a unit of work over the client's connection pool
func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	return &UnitOfWork{
		client: client,
		repos:  newRepositories(client.DB()),
	}
}

// SetMetrics enables transaction duration metrics
func (u *UnitOfWork) SetMetrics(metrics *observability.Metrics) {
	u.metrics = metrics
}

// Repos returns repositories bound to the pool
func (u *UnitOfWork) Repos() *repositories.Repositories {
	return u.repos
}

// Do runs fn in a transaction. The transaction is rolled back when fn fails or panics.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) (err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBMetric(ctx, u.metrics, "transaction", time.Since(start))
	}()

	sqlTx, err := u.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, &pgTx{tx: sqlTx, repos: newRepositories(sqlTx)}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			log.Ctx(ctx).Error().Err(rbErr).Msg("failed to roll back transaction")
		}
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

type pgTx struct {
	tx    *sqlx.Tx
	repos *repositories.Repositories
}

func (t *pgTx) Repos() *repositories.Repositories {
	return t.repos
}

// Savepoint wraps fn in SAVEPOINT / RELEASE, rolling back to the savepoint on failure
func (t *pgTx) Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ident := pq.QuoteIdentifier(name)

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+ident); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to create savepoint %s", name), err)
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+ident); rbErr != nil {
			return apperrors.NewInternalError(fmt.Sprintf("failed to roll back to savepoint %s", name), rbErr)
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+ident); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to release savepoint %s", name), err)
	}
	return nil
}

func newRepositories(exec postgres.Executor) *repositories.Repositories {
	return &repositories.Repositories{
		Comments:              NewCommentAdapter(exec),
		Posts:                 NewPostAdapter(exec),
		Restaurants:           NewRestaurantAdapter(exec),
		Profiles:              NewProfileAdapter(exec),
		Orders:                NewOrderAdapter(exec),
		Ratings:               NewRatingAdapter(exec),
		CustomerNotifications: NewCustomerNotificationAdapter(exec),
		OwnerNotifications:    NewOwnerNotificationAdapter(exec),
	}
}
