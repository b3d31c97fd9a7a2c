package service

import (
	"context"
	"strings"

	"stashbox/internal/core/identity"
	"stashbox/internal/core/normalize"
	"stashbox/internal/core/paging"
	"stashbox/internal/modkit/repokit"
	perr "stashbox/internal/platform/errors"
	"stashbox/internal/platform/logger"
	"stashbox/internal/platform/net/http/bind"
	"stashbox/internal/services/filters/domain"

	"github.com/google/uuid"
)

// List returns one page of the owner's rules
// sort fields are checked against the allow-list before storage is touched
func (s *Svc) List(ctx context.Context, owner uuid.UUID, c domain.Criteria, p paging.Request) (paging.Page[domain.Filter], error) {
	req, orders, err := domain.SortFields.Resolve(p)
	if err != nil {
		return paging.Page[domain.Filter]{}, err
	}
	orderBy := paging.OrderBy(orders, domain.DefaultOrder, "id")

	items, total, err := s.Repo.List(ctx, owner, c, orderBy, req.Size, req.Offset())
	if err != nil {
		return paging.Page[domain.Filter]{}, internal(err, "filters.list")
	}
	return paging.Page[domain.Filter]{Items: items, Page: req.Page, Size: req.Size, Total: total}, nil
}

// Get returns the rule or NotFound; foreign ids are reported like missing ones
func (s *Svc) Get(ctx context.Context, owner, id uuid.UUID) (domain.Filter, error) {
	f, found, err := s.Repo.Get(ctx, owner, id)
	if err != nil {
		return domain.Filter{}, internal(err, "filters.get")
	}
	if !found {
		return domain.Filter{}, notFound(id)
	}
	return f, nil
}

// Create validates the request, reserves name and url pattern and stores a new active rule
func (s *Svc) Create(ctx context.Context, owner uuid.UUID, in domain.CreateInput) (domain.Filter, error) {
	if err := bind.Validate(in); err != nil {
		return domain.Filter{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Filter{}, perr.Internal(err, "filters.id")
	}
	now := s.clock.Now()

	f := domain.Filter{
		ID:                id,
		OwnerID:           owner,
		Description:       cleanDescription(in.Description),
		CaptureGroupIndex: *in.CaptureGroupIndex,
		Priority:          *in.Priority,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := setName(&f, in.Name); err != nil {
		return domain.Filter{}, err
	}
	if err := setURLPattern(&f, in.URLPattern); err != nil {
		return domain.Filter{}, err
	}
	if err := setDomain(&f, in.Domain); err != nil {
		return domain.Filter{}, err
	}
	if err := setRegex(&f, in.ExtractionRegex); err != nil {
		return domain.Filter{}, err
	}

	res := identity.Reservation{
		Kind:  domain.Kind,
		Owner: owner,
		Claims: []identity.Claim{
			nameClaim(in.Name, f),
			urlClaim(in.URLPattern, f),
		},
	}
	err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		return s.registry.Reserve(ctx, res, r, func(ctx context.Context) error {
			return r.Insert(ctx, f)
		})
	})
	if err != nil {
		return domain.Filter{}, internal(err, "filters.create")
	}
	logger.C(ctx).Info().Str("filter_id", f.ID.String()).Msg("filter created")
	return f, nil
}

// Update applies the present fields of in
// identity is reserved again only for keys whose normalized value changed
func (s *Svc) Update(ctx context.Context, owner, id uuid.UUID, in domain.UpdateInput) (domain.Filter, error) {
	if in.Empty() {
		return domain.Filter{}, perr.Validationf("body", "at least one field must be provided")
	}
	if err := bind.Validate(in); err != nil {
		return domain.Filter{}, err
	}
	// blank checks run against a scratch rule so nothing is read first
	if _, _, err := apply(domain.Filter{}, in); err != nil {
		return domain.Filter{}, err
	}

	var out domain.Filter
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		cur, found, err := r.Lock(ctx, owner, id)
		if err != nil {
			return perr.Internal(err, "filters.lock")
		}
		if !found {
			return notFound(id)
		}

		next, claims, err := apply(cur, in)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.clock.Now()

		res := identity.Reservation{Kind: domain.Kind, Owner: owner, Exclude: &id, Claims: claims}
		err = s.registry.Reserve(ctx, res, r, func(ctx context.Context) error {
			ok, err := r.Update(ctx, next)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(id)
			}
			return nil
		})
		if err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return domain.Filter{}, internal(err, "filters.update")
	}
	return out, nil
}

// Delete removes the rule; missing and foreign ids are NotFound
func (s *Svc) Delete(ctx context.Context, owner, id uuid.UUID) error {
	ok, err := s.Repo.Delete(ctx, owner, id)
	if err != nil {
		return internal(err, "filters.delete")
	}
	if !ok {
		return notFound(id)
	}
	logger.C(ctx).Info().Str("filter_id", id.String()).Msg("filter deleted")
	return nil
}

// Domains lists the distinct domains of the owner's rules in ascending order
func (s *Svc) Domains(ctx context.Context, owner uuid.UUID) ([]string, error) {
	out, err := s.Repo.Domains(ctx, owner)
	if err != nil {
		return nil, internal(err, "filters.domains")
	}
	return out, nil
}

// apply returns cur with the present fields of in and the identity claims that changed
func apply(cur domain.Filter, in domain.UpdateInput) (domain.Filter, []identity.Claim, error) {
	next := cur
	var claims []identity.Claim

	if in.Name != nil {
		if err := setName(&next, *in.Name); err != nil {
			return cur, nil, err
		}
		if next.NormalizedName != cur.NormalizedName {
			claims = append(claims, nameClaim(*in.Name, next))
		}
	}
	if in.URLPattern != nil {
		if err := setURLPattern(&next, *in.URLPattern); err != nil {
			return cur, nil, err
		}
		if next.NormalizedURLPattern != cur.NormalizedURLPattern {
			claims = append(claims, urlClaim(*in.URLPattern, next))
		}
	}
	if in.Domain != nil {
		if err := setDomain(&next, *in.Domain); err != nil {
			return cur, nil, err
		}
	}
	if in.ExtractionRegex != nil {
		if err := setRegex(&next, *in.ExtractionRegex); err != nil {
			return cur, nil, err
		}
	}
	if in.Description != nil {
		next.Description = cleanDescription(in.Description)
	}
	if in.CaptureGroupIndex != nil {
		next.CaptureGroupIndex = *in.CaptureGroupIndex
	}
	if in.Priority != nil {
		next.Priority = *in.Priority
	}
	if in.Active != nil {
		next.Active = *in.Active
	}
	return next, claims, nil
}

func nameClaim(raw string, f domain.Filter) identity.Claim {
	return identity.Claim{Field: domain.FieldName, Raw: raw, Value: f.NormalizedName}
}

func urlClaim(raw string, f domain.Filter) identity.Claim {
	return identity.Claim{Field: domain.FieldURLPattern, Raw: raw, Value: f.NormalizedURLPattern}
}

func setName(f *domain.Filter, raw string) error {
	n, ok := normalize.Normalize(raw)
	if !ok {
		return perr.Validationf(domain.FieldName, "name must not be blank")
	}
	f.Name = strings.TrimSpace(raw)
	f.NormalizedName = n
	return nil
}

func setURLPattern(f *domain.Filter, raw string) error {
	n, ok := normalize.Normalize(raw)
	if !ok {
		return perr.Validationf(domain.FieldURLPattern, "url_pattern must not be blank")
	}
	f.URLPattern = strings.TrimSpace(raw)
	f.NormalizedURLPattern = n
	return nil
}

func setDomain(f *domain.Filter, raw string) error {
	d := strings.TrimSpace(raw)
	if d == "" {
		return perr.Validationf("domain", "domain must not be blank")
	}
	f.Domain = d
	return nil
}

func setRegex(f *domain.Filter, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return perr.Validationf("extraction_regex", "extraction_regex must not be blank")
	}
	f.ExtractionRegex = raw
	return nil
}

// cleanDescription trims the description; empty clears it
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
