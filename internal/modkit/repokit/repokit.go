// Package repokit is what service repos and services share for postgres access
package repokit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stashbox/internal/platform/store"
)

type (
	// Queryer is a pool or a transaction
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner
)

// Binder builds a repo on top of a Queryer so one repo type serves pool and tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc is a Binder from a plain func
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// WithTx runs fn inside one transaction of db
func WithTx(ctx context.Context, db TxRunner, fn func(q Queryer) error) error {
	return db.Tx(ctx, fn)
}

// BeginHook runs first inside every transaction
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns db with hooks run at the start of each Tx
func WithBeginHooks(db TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return db
	}
	return hooked{TxRunner: db, hooks: hooks}
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h hooked) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// LockTimeout caps how long the transaction waits on row locks
func LockTimeout(d time.Duration) BeginHook {
	stmt := "set local lock_timeout = " + strconv.FormatInt(d.Milliseconds(), 10)
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, stmt)
		return err
	}
}

// MustGuard panics when a backend fails its startup check
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
