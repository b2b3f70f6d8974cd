package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gzmliang/finbook/internal/shared/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// storageErr classifies an unexpected database failure. Constraint
// violations are handled by callers before reaching here, so what
// remains is treated as a retryable storage problem.
func storageErr(op string, err error) error {
	return apperr.StorageUnavailable(fmt.Sprintf("%s failed", op), err)
}
