package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

func sqlState(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	ok := stderrs.As(err, &pgErr)
	return pgErr, ok
}

// IsDuplicateKey reports a unique constraint violation
func IsDuplicateKey(err error) bool {
	e, ok := sqlState(err)
	return ok && e.Code == sqlStateUniqueViolation
}

// IsForeignKeyViolation reports a foreign key violation
func IsForeignKeyViolation(err error) bool {
	e, ok := sqlState(err)
	return ok && e.Code == sqlStateForeignKeyViolation
}

// ConstraintOf returns the violated constraint name in lower case, or ""
func ConstraintOf(err error) string {
	e, ok := sqlState(err)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(e.ConstraintName))
}
