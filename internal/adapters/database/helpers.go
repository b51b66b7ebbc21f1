package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

// Postgres SQLSTATE codes mapped to application errors
const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

var dialect = goqu.Dialect("postgres")

func columns(names ...string) []interface{} {
	cols := make([]interface{}, len(names))
	for i, name := range names {
		cols[i] = name
	}
	return cols
}

// mapWriteError turns driver errors from inserts and updates into application errors
func mapWriteError(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.NewConflictError(message+": already exists", err)
	}
	return mapQueryError(err, message)
}

// mapQueryError reports a malformed identifier as a validation error and anything else as internal
func mapQueryError(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation {
		return apperrors.NewValidationError(message + ": malformed identifier")
	}
	return apperrors.NewInternalError(message, err)
}

// mapReadError turns sql.ErrNoRows into a not found error
func mapReadError(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", entity, id))
	}
	return mapQueryError(err, fmt.Sprintf("failed to get %s", entity))
}

// expectOneRow reports a not found error when an update matched nothing
func expectOneRow(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to read affected rows for %s", entity), err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", entity, id))
	}
	return nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
