package store

import (
	"context"
	"errors"
	"strings"

	perr "stashbox/internal/platform/errors"
)

// ErrManyRows is returned by One when the query yields more than one row
var ErrManyRows = errors.New("store: expected one row, got more")

// ExecOne runs a write and reports whether it touched exactly one row
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) (bool, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Scalar scans the first column of the first row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	err := q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

// One maps a single row with scan; no rows is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	items, err := collect(ctx, q, scan, 2, sql, args...)
	switch {
	case err != nil:
		return zero, err
	case len(items) == 0:
		return zero, perr.ErrNotFound
	case len(items) > 1:
		return zero, ErrManyRows
	}
	return items[0], nil
}

// Many maps every row with scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	return collect(ctx, q, scan, -1, sql, args...)
}

// collect scans at most limit rows, or all of them when limit is negative
func collect[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), limit int, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for (limit < 0 || len(out) < limit) && rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s a literal inside a LIKE pattern; pair it with ESCAPE '\'
func EscapeLike(s string) string { return likeEscaper.Replace(s) }
