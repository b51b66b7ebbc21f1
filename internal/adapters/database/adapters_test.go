package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yangonbites/platform/internal/adapters/database"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return postgres.NewClientFromDB(mockDB), mock
}

func strPtr(s string) *string { return &s }

func TestCommentAdapter_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("inserts a reply with its parent", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewCommentAdapter(client.DB())

		mock.ExpectExec(`INSERT INTO "comments" .*'parent-1'`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.Create(ctx, &entities.Comment{
			ID: "c-1", PostID: "p-1", AuthorID: "u-1", Content: "hi",
			ParentID: strPtr("parent-1"), CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("root comment writes NULL parent", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewCommentAdapter(client.DB())

		mock.ExpectExec(`INSERT INTO "comments" .*NULL`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.Create(ctx, &entities.Comment{
			ID: "c-2", PostID: "p-1", AuthorID: "u-1", Content: "root", CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewCommentAdapter(client.DB())

		mock.ExpectExec(`INSERT INTO "comments"`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := adapter.Create(ctx, &entities.Comment{ID: "c-1", PostID: "p-1", AuthorID: "u-1", Content: "x"})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestCommentAdapter_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns soft-deleted comments", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewCommentAdapter(client.DB())

		rows := sqlmock.NewRows([]string{
			"id", "post_id", "author_id", "content", "parent_id",
			"is_deleted", "is_edited", "created_at", "updated_at",
		}).AddRow("c-1", "p-1", "u-1", "gone", nil, true, false, time.Now(), time.Now())
		mock.ExpectQuery(`SELECT .* FROM "comments" WHERE \("id" = 'c-1'\)`).WillReturnRows(rows)

		comment, err := adapter.GetByID(ctx, "c-1")
		require.NoError(t, err)
		assert.True(t, comment.IsDeleted)
		assert.Nil(t, comment.ParentID)
		assert.False(t, comment.IsReply())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewCommentAdapter(client.DB())

		mock.ExpectQuery(`SELECT .* FROM "comments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := adapter.GetByID(ctx, "missing")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCommentAdapter_UpdateNotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewCommentAdapter(client.DB())

	mock.ExpectExec(`UPDATE "comments" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Update(context.Background(), &entities.Comment{ID: "nope", Content: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRatingAdapter_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("nil order matches IS NULL", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewRatingAdapter(client.DB())

		mock.ExpectQuery(`FROM "ratings" WHERE .*"order_id" IS NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		found, err := adapter.Exists(ctx, "r-1", "u-1", nil)
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("order id is matched by value", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewRatingAdapter(client.DB())

		mock.ExpectQuery(`FROM "ratings" WHERE .*"order_id" = 'o-1'`).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		found, err := adapter.Exists(ctx, "r-1", "u-1", strPtr("o-1"))
		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestRatingAdapter_TotalsForRestaurant(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewRatingAdapter(client.DB())

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ROUND\(rating \* 10\)\), 0\)::bigint AS "sum_tenths", COUNT\(\*\) AS "count" FROM "ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"sum_tenths", "count"}).AddRow(85, 2))

	totals, err := adapter.TotalsForRestaurant(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, entities.RatingTotals{SumTenths: 85, Count: 2}, totals)

	mean, ok := totals.Mean()
	assert.True(t, ok)
	assert.Equal(t, 4.3, mean)
}

func TestRestaurantAdapter_UpdateRating(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewRestaurantAdapter(client.DB())

	mock.ExpectExec(`UPDATE "restaurants" SET .*"rating"=4\.5`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.UpdateRating(context.Background(), "r-1", 4.5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderAdapter_GetByID(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewOrderAdapter(client.DB())

	rows := sqlmock.NewRows([]string{"id", "restaurant_id", "customer_id", "status", "total_amount", "created_at", "updated_at"}).
		AddRow("o-1", "r-1", "u-1", "completed", 12.5, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM "orders"`).WillReturnRows(rows)

	order, err := adapter.GetByID(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusCompleted, order.Status)
	assert.True(t, order.Status.IsTerminal())
}

func TestCustomerNotificationAdapter_ListAndCount(t *testing.T) {
	ctx := context.Background()
	client, mock := setupMockDB(t)
	adapter := database.NewCustomerNotificationAdapter(client.DB())

	rows := sqlmock.NewRows([]string{
		"id", "customer_id", "order_id", "title", "message", "status",
		"post_id", "reply_content", "restaurant_name", "created_at",
	}).
		AddRow("n-2", "u-1", nil, "New reply to your comment", "m", "unread", "p-1", "hello", "Noodle Bar", time.Now()).
		AddRow("n-1", "u-1", "o-1", "Rate your experience", "m", "read", nil, nil, nil, time.Now().Add(-time.Minute))
	mock.ExpectQuery(`SELECT .* FROM "customer_notifications" .*ORDER BY "created_at" DESC, "id" DESC LIMIT 20`).
		WillReturnRows(rows)

	list, err := adapter.ListByCustomer(ctx, "u-1", 20)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Noodle Bar", *list[0].RestaurantName)
	assert.Nil(t, list[0].OrderID)
	assert.Equal(t, "o-1", *list[1].OrderID)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "customer_notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := adapter.CountUnread(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCustomerNotificationAdapter_MarkAllRead(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewCustomerNotificationAdapter(client.DB())

	mock.ExpectExec(`UPDATE "customer_notifications" SET "status"='read' WHERE .*"status" = 'unread'`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	changed, err := adapter.MarkAllRead(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), changed)
}

func TestOwnerNotificationAdapter_CreateDuplicateComment(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewOwnerNotificationAdapter(client.DB())

	mock.ExpectExec(`INSERT INTO "owner_notifications"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "owner_notifications_comment_id_key"})

	err := adapter.Create(context.Background(), &entities.OwnerNotification{ID: "n-1", CommentID: "c-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestOwnerNotificationAdapter_MarkReadMissing(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewOwnerNotificationAdapter(client.DB())

	mock.ExpectExec(`UPDATE "owner_notifications"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.MarkRead(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUnitOfWork_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		client, mock := setupMockDB(t)
		uow := database.NewUnitOfWork(client)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
			return tx.Repos().Orders.UpdateStatus(ctx, "o-1", entities.OrderStatusCompleted)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		client, mock := setupMockDB(t)
		uow := database.NewUnitOfWork(client)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
			return tx.Repos().Orders.UpdateStatus(ctx, "o-1", entities.OrderStatusCompleted)
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed savepoint keeps the outer write", func(t *testing.T) {
		client, mock := setupMockDB(t)
		uow := database.NewUnitOfWork(client)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "comments"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`^SAVEPOINT "reply_notification"$`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "customer_notifications"`).WillReturnError(assert.AnError)
		mock.ExpectExec(`^ROLLBACK TO SAVEPOINT "reply_notification"$`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		var savepointErr error
		err := uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
			if err := tx.Repos().Comments.Create(ctx, &entities.Comment{ID: "c-1", PostID: "p-1", AuthorID: "u-1", Content: "x"}); err != nil {
				return err
			}
			savepointErr = tx.Savepoint(ctx, "reply_notification", func(ctx context.Context) error {
				return tx.Repos().CustomerNotifications.Create(ctx, &entities.CustomerNotification{ID: "n-1", CustomerID: "u-2"})
			})
			return nil
		})
		require.NoError(t, err)
		assert.Error(t, savepointErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("successful savepoint is released", func(t *testing.T) {
		client, mock := setupMockDB(t)
		uow := database.NewUnitOfWork(client)

		mock.ExpectBegin()
		mock.ExpectExec(`^SAVEPOINT "rating_prompt"$`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`^RELEASE SAVEPOINT "rating_prompt"$`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := uow.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
			return tx.Savepoint(ctx, "rating_prompt", func(ctx context.Context) error { return nil })
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderAdapter_GetForUpdate(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewOrderAdapter(client.DB())

	rows := sqlmock.NewRows([]string{"id", "restaurant_id", "customer_id", "status", "total_amount", "created_at", "updated_at"}).
		AddRow("o-1", "r-1", "u-1", "preparing", 12.5, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM "orders" WHERE \("id" = 'o-1'\) FOR UPDATE`).WillReturnRows(rows)

	order, err := adapter.GetForUpdate(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPreparing, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAdapter_GetForUpdate(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewRatingAdapter(client.DB())

	rows := sqlmock.NewRows([]string{"id", "restaurant_id", "customer_id", "order_id", "rating", "created_at"}).
		AddRow("rt-1", "r-1", "u-1", nil, 4.0, time.Now())
	mock.ExpectQuery(`SELECT .* FROM "ratings" WHERE \("id" = 'rt-1'\) FOR UPDATE`).WillReturnRows(rows)

	rating, err := adapter.GetForUpdate(context.Background(), "rt-1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, rating.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMalformedIdentifierIsValidationError(t *testing.T) {
	ctx := context.Background()
	malformed := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`}

	t.Run("read", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewOrderAdapter(client.DB())

		mock.ExpectQuery(`SELECT .* FROM "orders"`).WillReturnError(malformed)

		_, err := adapter.GetByID(ctx, "not-a-uuid")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("write", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewOwnerNotificationAdapter(client.DB())

		mock.ExpectExec(`INSERT INTO "owner_notifications"`).WillReturnError(malformed)

		err := adapter.Create(ctx, &entities.OwnerNotification{ID: "n-1", CommentID: "not-a-uuid"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}
