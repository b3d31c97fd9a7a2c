package store

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type chDB struct{ conn driver.Conn }

// openCH prepares a native connection; the driver dials lazily, so failures surface on Ping
func openCH(app string, cfg CHConfig) (*chDB, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = clientInfo(app)
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &chDB{conn: conn}, nil
}

func clientInfo(app string) clickhouse.ClientInfo {
	if app == "" {
		app = "stashbox"
	}
	type product = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []product{
		{Name: app, Version: "1"},
		{Name: "go", Version: runtime.Version()},
	}}
}

// Insert appends rows to table as one batch; values follow the table's column order
func (c *chDB) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

func (c *chDB) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

func (c *chDB) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

func (c *chDB) Close() error { return c.conn.Close() }
