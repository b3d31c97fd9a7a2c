// Package logger wraps zerolog with env driven defaults and request scoped fields
package logger

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project logging type
type Logger = zerolog.Logger

// Options shapes the root logger
type Options struct {
	Level   string
	Format  string
	Service string
	Caller  bool
	Out     io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
// config imports this package, so the lookups stay local
func FromEnv() Options {
	env := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv("LOG_" + k)); v != "" {
			return v
		}
		return def
	}
	caller, _ := strconv.ParseBool(env("CALLER", "false"))
	return Options{
		Level:   env("LEVEL", "debug"),
		Format:  env("FORMAT", "console"),
		Service: env("SERVICE", ""),
		Caller:  caller,
	}
}

// New builds a logger from opt; unknown levels fall back to debug
func New(opt Options) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}
	out := opt.Out
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(opt.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	zc := zerolog.New(out).Level(lvl).With().Timestamp()
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	if opt.Caller {
		zc = zc.Caller()
	}
	return zc.Logger()
}

var root atomic.Pointer[Logger]

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Get returns the process root logger, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	l := New(FromEnv())
	root.CompareAndSwap(nil, &l)
	return root.Load()
}

// Set replaces the root logger
func Set(l Logger) { root.Store(&l) }

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyOwnerID
)

// WithRequest stores the request and owner ids on ctx; empty values are skipped
func WithRequest(ctx context.Context, reqID, ownerID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if ownerID != "" {
		ctx = context.WithValue(ctx, keyOwnerID, ownerID)
	}
	return ctx
}

// WithOwner stores the resolved owner id on ctx
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return WithRequest(ctx, "", ownerID)
}

// C returns the root logger enriched with request_id and owner_id from ctx
func C(ctx context.Context) *Logger {
	zc := Get().With()
	if s, _ := ctx.Value(keyRequestID).(string); s != "" {
		zc = zc.Str("request_id", s)
	}
	if s, _ := ctx.Value(keyOwnerID).(string); s != "" {
		zc = zc.Str("owner_id", s)
	}
	l := zc.Logger()
	return &l
}

// Named returns a child of the root logger tagged with component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}
