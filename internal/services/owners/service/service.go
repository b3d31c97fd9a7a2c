// Package service resolves external owner ids through a bounded, expiring cache
// Delete forgets the caller's mapping; owners removed any other way linger at most TTL.
// Every data query still scopes by the internal id, so a stale hit can only produce
// empty reads or a foreign key NotFound on write
package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"stashbox/internal/modkit/repokit"
	perr "stashbox/internal/platform/errors"
	"stashbox/internal/platform/logger"
	"stashbox/internal/services/owners/domain"
	"stashbox/internal/services/owners/repo"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Cache defaults
const (
	DefaultCacheSize = 10_000
	DefaultCacheTTL  = 10 * time.Minute
)

// Options tune the owner cache and provisioning
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	// AutoProvision creates unknown owners on first sight (dev auth only)
	AutoProvision bool
}

// Service defines the service contract for owners
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
	opts Options

	cache  *expirable.LRU[uuid.UUID, uuid.UUID]
	flight singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a new owners service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts Options) *Svc {
	if db == nil {
		panic("owners.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("owners.Service requires a non nil Repo binder")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	s := &Svc{Repo: binder.Bind(db), opts: opts}
	s.cache = expirable.NewLRU[uuid.UUID, uuid.UUID](opts.CacheSize, func(uuid.UUID, uuid.UUID) {
		s.evictions.Add(1)
	}, opts.CacheTTL)
	return s
}

// Resolve maps an external owner id to the internal id
// malformed and unknown ids are both NotFound with the value redacted
func (s *Svc) Resolve(ctx context.Context, external string) (uuid.UUID, error) {
	ext, err := uuid.Parse(strings.TrimSpace(external))
	if err != nil {
		return uuid.Nil, perr.NotFoundResource(domain.Resource, "externalId", external)
	}
	if id, ok := s.cache.Get(ext); ok {
		s.hits.Add(1)
		return id, nil
	}
	s.misses.Add(1)

	v, err, _ := s.flight.Do(ext.String(), func() (any, error) {
		return s.load(ctx, ext)
	})
	if err != nil {
		return uuid.Nil, err
	}
	id := v.(uuid.UUID)
	s.cache.Add(ext, id)
	return id, nil
}

func (s *Svc) load(ctx context.Context, ext uuid.UUID) (uuid.UUID, error) {
	id, found, err := s.Repo.InternalID(ctx, ext)
	if err != nil {
		return uuid.Nil, perr.Internal(err, "owners.resolve")
	}
	if found {
		return id, nil
	}
	if !s.opts.AutoProvision {
		return uuid.Nil, perr.NotFoundResource(domain.Resource, "externalId", ext)
	}
	fresh, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, perr.Internal(err, "owners.provision")
	}
	id, err = s.Repo.Provision(ctx, fresh, ext)
	if err != nil {
		return uuid.Nil, perr.Internal(err, "owners.provision")
	}
	logger.C(ctx).Info().Msg("owner provisioned")
	return id, nil
}

// Forget drops a cached mapping
func (s *Svc) Forget(external uuid.UUID) { s.cache.Remove(external) }

// Delete removes owner id and forgets external even when the row was already gone
func (s *Svc) Delete(ctx context.Context, id uuid.UUID, external string) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return perr.Internal(err, "owners.delete")
	}
	if ext, err := uuid.Parse(strings.TrimSpace(external)); err == nil {
		s.Forget(ext)
	}
	if !deleted {
		return perr.NotFoundResource(domain.Resource, "id", id)
	}
	logger.C(ctx).Info().Msg("owner deleted")
	return nil
}

// Stats returns a snapshot of cache counters
func (s *Svc) Stats() domain.CacheStats {
	h, m := s.hits.Load(), s.misses.Load()
	st := domain.CacheStats{
		Size:      s.cache.Len(),
		Capacity:  s.opts.CacheSize,
		TTL:       s.opts.CacheTTL.String(),
		Hits:      h,
		Misses:    m,
		Evictions: s.evictions.Load(),
	}
	if total := h + m; total > 0 {
		st.HitRate = float64(h) / float64(total)
		st.MissRate = float64(m) / float64(total)
	}
	return st
}
