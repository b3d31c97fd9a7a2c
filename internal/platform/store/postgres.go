package store

import (
	"context"
	"fmt"
	"time"

	"stashbox/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	readyAttempts = 20
	readyBackoff  = 150 * time.Millisecond
)

const (
	readyBackoffMax = 2 * time.Second
	readyPingWait   = 3 * time.Second
)

// pgxQuerier is satisfied by both the pool and a pgx transaction
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querier struct{ q pgxQuerier }

func (x querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	tag, err := x.q.Exec(ctx, sql, args...)
	return tag, err
}

func (x querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := x.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (x querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return x.q.QueryRow(ctx, sql, args...)
}

type pgDB struct {
	querier
	pool *pgxpool.Pool
}

func openPG(ctx context.Context, app string, cfg PGConfig, log logger.Logger) (*pgDB, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if app != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = app
	}
	if cfg.LogSQL || cfg.Slow > 0 {
		pcfg.ConnConfig.Tracer = newSQLTracer(log, cfg.Slow, cfg.LogSQL)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: pool: %w", err)
	}
	if err := waitReady(ctx, pool.Ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: %w", err)
	}
	return &pgDB{querier: querier{pool}, pool: pool}, nil
}

// waitReady retries ping with capped exponential backoff
func waitReady(ctx context.Context, ping func(context.Context) error) error {
	backoff := readyBackoff
	var err error
	for i := 0; i < readyAttempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, readyPingWait)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, readyBackoffMax)
	}
	return fmt.Errorf("not ready after %d attempts: %w", readyAttempts, err)
}

func (d *pgDB) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		return fn(querier{tx})
	})
}

func (d *pgDB) Ping(ctx context.Context) error { return d.pool.Ping(ctx) }

func (d *pgDB) Close() error {
	d.pool.Close()
	return nil
}
