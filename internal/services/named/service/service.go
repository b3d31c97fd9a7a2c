// Package service implements groups and tags on top of the identity registry
package service

import (
	"context"
	"strings"

	"stashbox/internal/core/identity"
	"stashbox/internal/core/paging"
	"stashbox/internal/modkit/repokit"
	perr "stashbox/internal/platform/errors"
	"stashbox/internal/platform/logger"
	"stashbox/internal/platform/net/http/bind"
	ptime "stashbox/internal/platform/time"
	"stashbox/internal/services/named/domain"
	"stashbox/internal/services/named/repo"

	"github.com/google/uuid"
)

// Service defines the service contract for one named resource kind
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	kind     domain.Kind
	registry *identity.Registry
	clock    ptime.Clock
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

// New creates a service for kind
func New(kind domain.Kind, db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic(kind.Name + ".Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic(kind.Name + ".Service requires a non nil Repo binder")
	}
	s := &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		kind:     kind,
		registry: identity.New(),
		clock:    ptime.System{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Kind returns the kind served
func (s *Svc) Kind() domain.Kind { return s.kind }

func (s *Svc) notFound(id uuid.UUID) error {
	return perr.NotFoundResource(s.kind.Resource(), "id", id)
}

func (s *Svc) op(name string) string { return s.kind.Name + "." + name }

// List returns one page of the owner's resources, optionally narrowed by name search
func (s *Svc) List(ctx context.Context, owner uuid.UUID, search *string, p paging.Request) (paging.Page[domain.Resource], error) {
	req, orders, err := domain.SortFields.Resolve(p)
	if err != nil {
		return paging.Page[domain.Resource]{}, err
	}
	orderBy := paging.OrderBy(orders, domain.DefaultOrder, "id")

	items, total, err := s.Repo.List(ctx, owner, search, orderBy, req.Size, req.Offset())
	if err != nil {
		return paging.Page[domain.Resource]{}, internal(err, s.op("list"))
	}
	return paging.Page[domain.Resource]{Items: items, Page: req.Page, Size: req.Size, Total: total}, nil
}

func (s *Svc) Get(ctx context.Context, owner, id uuid.UUID) (domain.Resource, error) {
	n, found, err := s.Repo.Get(ctx, owner, id)
	if err != nil {
		return domain.Resource{}, internal(err, s.op("get"))
	}
	if !found {
		return domain.Resource{}, s.notFound(id)
	}
	return n, nil
}

// Create reserves the name and its slug and stores the resource
func (s *Svc) Create(ctx context.Context, owner uuid.UUID, in domain.CreateInput) (domain.Resource, error) {
	if err := bind.Validate(in); err != nil {
		return domain.Resource{}, err
	}
	if err := s.checkDescription(in.Description); err != nil {
		return domain.Resource{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Resource{}, perr.Internal(err, s.op("id"))
	}
	now := s.clock.Now()
	n := domain.Resource{
		ID:          id,
		OwnerID:     owner,
		Name:        strings.TrimSpace(in.Name),
		Description: cleanDescription(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		_, err := s.registry.ReserveName(ctx, s.kind.Identity, owner, in.Name, nil, r,
			func(ctx context.Context, names identity.Names) error {
				n.NormalizedName = names.Normalized
				n.Slug = names.Slug
				return r.Insert(ctx, n)
			})
		return err
	})
	if err != nil {
		return domain.Resource{}, internal(err, s.op("create"))
	}
	logger.C(ctx).Info().Str("kind", s.kind.Name).Str("id", n.ID.String()).Msg("resource created")
	return n, nil
}

// Update renames and or redescribes the resource
// a rename that keeps the normalized name and slug skips the identity checks
func (s *Svc) Update(ctx context.Context, owner, id uuid.UUID, in domain.UpdateInput) (domain.Resource, error) {
	if in.Empty() {
		return domain.Resource{}, perr.Validationf("body", "at least one field must be provided")
	}
	if err := bind.Validate(in); err != nil {
		return domain.Resource{}, err
	}
	if err := s.checkDescription(in.Description); err != nil {
		return domain.Resource{}, err
	}
	var names identity.Names
	if in.Name != nil {
		var err error
		if names, err = s.registry.Derive(identity.FieldName, *in.Name); err != nil {
			return domain.Resource{}, err
		}
	}

	var out domain.Resource
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		cur, found, err := r.Lock(ctx, owner, id)
		if err != nil {
			return perr.Internal(err, s.op("lock"))
		}
		if !found {
			return s.notFound(id)
		}

		next := cur
		next.UpdatedAt = s.clock.Now()
		if in.Description != nil {
			next.Description = cleanDescription(in.Description)
		}
		write := func(ctx context.Context) error {
			ok, err := r.Update(ctx, next)
			if err != nil {
				return err
			}
			if !ok {
				return s.notFound(id)
			}
			return nil
		}

		if in.Name == nil {
			if err := write(ctx); err != nil {
				return err
			}
			out = next
			return nil
		}

		next.Name = strings.TrimSpace(*in.Name)
		next.NormalizedName = names.Normalized
		next.Slug = names.Slug
		res := identity.Reservation{Kind: s.kind.Identity, Owner: owner, Exclude: &id}
		if names.Normalized != cur.NormalizedName {
			res.Claims = append(res.Claims, identity.Claim{Field: identity.FieldName, Raw: *in.Name, Value: names.Normalized})
		}
		if names.Slug != cur.Slug {
			res.Claims = append(res.Claims, identity.Claim{Field: identity.FieldSlug, Raw: *in.Name, Value: names.Slug})
		}
		if err := s.registry.Reserve(ctx, res, r, write); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return domain.Resource{}, internal(err, s.op("update"))
	}
	return out, nil
}

func (s *Svc) Delete(ctx context.Context, owner, id uuid.UUID) error {
	ok, err := s.Repo.Delete(ctx, owner, id)
	if err != nil {
		return internal(err, s.op("delete"))
	}
	if !ok {
		return s.notFound(id)
	}
	logger.C(ctx).Info().Str("kind", s.kind.Name).Str("id", id.String()).Msg("resource deleted")
	return nil
}

func (s *Svc) checkDescription(d *string) error {
	if d != nil && !s.kind.Description {
		return perr.Validationf("description", "%s do not carry a description", s.kind.Name)
	}
	return nil
}

func cleanDescription(d *string) *string {
	if d == nil {
		return nil
	}
	t := strings.TrimSpace(*d)
	if t == "" {
		return nil
	}
	return &t
}

func internal(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.Internal(err, op)
}
