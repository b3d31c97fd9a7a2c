// Package service implements the filter rule store and the match engine
package service

import (
	"stashbox/internal/core/identity"
	"stashbox/internal/modkit/repokit"
	perr "stashbox/internal/platform/errors"
	ptime "stashbox/internal/platform/time"
	"stashbox/internal/services/filters/domain"
	"stashbox/internal/services/filters/repo"
)

// Service defines the service contract for filters
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
// it holds no per owner state; every call reads the store
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	registry *identity.Registry
	clock    ptime.Clock
	events   domain.EventSink
}

// Option configures Svc
type Option func(*Svc)

// WithClock sets the clock used for timestamps
func WithClock(c ptime.Clock) Option {
	return func(s *Svc) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithEvents sets the sink notified after a match is recorded
func WithEvents(e domain.EventSink) Option {
	return func(s *Svc) { s.events = e }
}

// New creates a new filters service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("filters.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("filters.Service requires a non nil Repo binder")
	}
	s := &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		registry: identity.New(),
		clock:    ptime.System{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func notFound(id any) error { return perr.NotFoundResource(domain.Resource, domain.FieldID, id) }

// internal keeps project errors and hides everything else behind an Internal error
func internal(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.Internal(err, op)
}
