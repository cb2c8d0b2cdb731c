package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeCheckViolation      = "23514"
)

// PgErrorCode returns the SQLSTATE code of a postgres error, or an empty string.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// PgConstraintName returns the name of the violated constraint, if any.
func PgConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func IsUniqueViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeUniqueViolation
}

func IsForeignKeyViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeForeignKeyViolation
}

func IsCheckViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeCheckViolation
}
