package db

import (
	"errors"
	"fmt"

	"restaurant-pos/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
)

// Translate maps driver errors onto domain error kinds. what names the
// entity for NotFound messages. Unrecognised errors are wrapped unchanged.
func Translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundf("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", what, err)
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return domain.NewConflict("concurrent update, retry the request")
	case codeNumericOutOfRange:
		return domain.NewInvalidArgumentf("%s out of range: %s", what, pgErr.Message)
	case codeUniqueViolation:
		return domain.NewInvalidArgumentf("%s already exists", what)
	case codeForeignKeyViolation:
		return domain.NewNotFoundf("%s references a missing record (%s)", what, pgErr.ConstraintName)
	case codeCheckViolation:
		return domain.NewInvalidArgumentf("%s violates %s", what, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", what, err)
}
