package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stashbox/internal/core/identity"
	"stashbox/internal/core/normalize"
	"stashbox/internal/modkit/repokit"
	"stashbox/internal/platform/store"
	ptime "stashbox/internal/platform/time"
	"stashbox/internal/services/named/domain"
	"stashbox/internal/services/named/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (nopTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error   { return fn(nopTx{}) }

// fakeRepo stores one kind in memory with the name and slug constraints of postgres
type fakeRepo struct {
	kind domain.Kind

	mu    sync.Mutex
	items map[uuid.UUID]domain.Resource

	blindIndex bool
	err        error
	looked     []string
	updates    int
}

func newFakeRepo(kind domain.Kind) *fakeRepo {
	return &fakeRepo{kind: kind, items: map[uuid.UUID]domain.Resource{}}
}

func (f *fakeRepo) Taken(_ context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.looked = append(f.looked, field)
	if f.blindIndex {
		return false, nil
	}
	for _, n := range f.items {
		if n.OwnerID != owner || (exclude != nil && n.ID == *exclude) {
			continue
		}
		if field == identity.FieldName && n.NormalizedName == value {
			return true, nil
		}
		if field == identity.FieldSlug && n.Slug == value {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) violation(c domain.Resource) error {
	for _, n := range f.items {
		if n.OwnerID != c.OwnerID || n.ID == c.ID {
			continue
		}
		if n.NormalizedName == c.NormalizedName {
			return &pgconn.PgError{Code: "23505", ConstraintName: f.kind.Identity.Keys[0].Constraint}
		}
		if n.Slug == c.Slug {
			return &pgconn.PgError{Code: "23505", ConstraintName: f.kind.Identity.Keys[1].Constraint}
		}
	}
	return nil
}

func (f *fakeRepo) Insert(_ context.Context, n domain.Resource) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.violation(n); err != nil {
		return err
	}
	f.items[n.ID] = n
	return nil
}

func (f *fakeRepo) Update(_ context.Context, n domain.Resource) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	cur, ok := f.items[n.ID]
	if !ok || cur.OwnerID != n.OwnerID {
		return false, nil
	}
	if err := f.violation(n); err != nil {
		return false, err
	}
	n.CreatedAt = cur.CreatedAt
	f.items[n.ID] = n
	return true, nil
}

func (f *fakeRepo) Get(_ context.Context, owner, id uuid.UUID) (domain.Resource, bool, error) {
	if f.err != nil {
		return domain.Resource{}, false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.items[id]
	if !ok || n.OwnerID != owner {
		return domain.Resource{}, false, nil
	}
	return n, true, nil
}

func (f *fakeRepo) Lock(ctx context.Context, owner, id uuid.UUID) (domain.Resource, bool, error) {
	return f.Get(ctx, owner, id)
}

func (f *fakeRepo) Delete(_ context.Context, owner, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.items[id]
	if !ok || n.OwnerID != owner {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) List(_ context.Context, owner uuid.UUID, search *string, _ string, limit, offset int) ([]domain.Resource, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var needle string
	if search != nil {
		needle, _ = normalize.Normalize(*search)
	}
	f.mu.Lock()
	out := []domain.Resource{}
	for _, n := range f.items {
		if n.OwnerID == owner && strings.Contains(n.NormalizedName, needle) {
			out = append(out, n)
		}
	}
	f.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].NormalizedName < out[j].NormalizedName })
	total := len(out)
	if offset >= total {
		return []domain.Resource{}, total, nil
	}
	return out[offset:min(offset+limit, total)], total, nil
}

var epoch = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

func newSvc(kind domain.Kind, r *fakeRepo) (*Svc, *ptime.Manual) {
	clock := ptime.NewManual(epoch)
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r })
	return New(kind, nopTx{}, binder, WithClock(clock)), clock
}

func ptr[T any](v T) *T { return &v }
