// Package store opens the postgres and clickhouse backends behind small seams
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stashbox/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Row is a single scannable result
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports the outcome of a write
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos run against
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also scope fn to one transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam used for append only event tables
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Config selects and configures the backends
type Config struct {
	AppName string
	PG      PGConfig
	CH      CHConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32

	// LogSQL logs every statement; Slow logs statements at or above the threshold
	LogSQL bool
	Slow   time.Duration
}

// CHConfig configures clickhouse
type CHConfig struct {
	Enabled bool
	URL     string
}

// Store holds the opened backends; a disabled backend stays nil
type Store struct {
	PG TxRunner
	CH Clickhouse

	log logger.Logger
}

// Option adjusts Open
type Option func(*Store)

// WithLogger sets the logger handed to backend tracers
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open connects the enabled backends; postgres is pinged until ready
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	if cfg.PG.Enabled {
		db, err := openPG(ctx, cfg.AppName, cfg.PG, s.log)
		if err != nil {
			return nil, err
		}
		s.PG = db
	}
	if cfg.CH.Enabled {
		c, err := openCH(cfg.AppName, cfg.CH)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}
	return s, nil
}

// Guard pings every opened backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	var errs []error
	for name, b := range map[string]any{"pg": s.PG, "ch": s.CH} {
		p, ok := b.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every opened backend
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
