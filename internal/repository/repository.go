// Package repository contains the sqlx persistence layer. All queries
// are hand-written SQL against Postgres via the pgx stdlib driver.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when a write trips a unique index (duplicate
// registration, duplicate certificate code, duplicate user email).
// Services map it to a 409 Conflict.
var ErrDuplicate = errors.New("duplicate key")

// translateError converts driver-level unique violations into
// ErrDuplicate so services never match on SQLSTATE themselves.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
