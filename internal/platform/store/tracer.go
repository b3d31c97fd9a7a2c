package store

import (
	"context"
	"strings"
	"time"

	"stashbox/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

// sqlTracer logs statements through pgx's tracing hook, so queries inside transactions are covered too
type sqlTracer struct {
	log  logger.Logger
	slow time.Duration
	all  bool
	now  func() time.Time
}

func newSQLTracer(log logger.Logger, slow time.Duration, all bool) *sqlTracer {
	return &sqlTracer{
		log:  log.With().Str("component", "pg").Logger(),
		slow: slow,
		all:  all,
		now:  time.Now,
	}
}

type traceKey struct{}

type traceStart struct {
	sql  string
	args []any
	at   time.Time
}

func (t *sqlTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: d.SQL, args: d.Args, at: t.now()})
}

func (t *sqlTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.at)
	slow := t.slow > 0 && elapsed >= t.slow
	if !t.all && !slow {
		return
	}
	ev := t.log.Info()
	if slow || d.Err != nil {
		ev = t.log.Warn()
	}
	ev.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", squash(st.sql)).
		Interface("args", st.args).
		Int64("rows", d.CommandTag.RowsAffected()).
		Err(d.Err).
		Msg("pg query")
}

func squash(s string) string { return strings.Join(strings.Fields(s), " ") }
