// Package schema embeds the storage schema and applies it at startup
// statements are idempotent; there is no migration history
package schema

import (
	"context"
	_ "embed"

	"stashbox/internal/platform/store"
)

//go:embed postgres.sql
var postgresSQL string

//go:embed clickhouse.sql
var clickhouseSQL string

// Postgres returns the postgres schema script
func Postgres() string { return postgresSQL }

// ClickHouse returns the clickhouse schema statement
func ClickHouse() string { return clickhouseSQL }

// ApplyPG runs the postgres schema in one round trip
func ApplyPG(ctx context.Context, q store.RowQuerier) error {
	_, err := q.Exec(ctx, postgresSQL)
	return err
}

// ApplyCH creates the clickhouse tables
func ApplyCH(ctx context.Context, c store.Clickhouse) error {
	return c.Exec(ctx, clickhouseSQL)
}
