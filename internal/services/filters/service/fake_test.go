package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"stashbox/internal/modkit/repokit"
	"stashbox/internal/platform/store"
	ptime "stashbox/internal/platform/time"
	"stashbox/internal/services/filters/domain"
	"stashbox/internal/services/filters/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// nopTx runs fn without a real transaction; the fake repo ignores the queryer
type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (nopTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error   { return fn(nopTx{}) }

// fakeRepo keeps rules in memory and enforces the two unique constraints like postgres would
type fakeRepo struct {
	mu    sync.Mutex
	rules map[uuid.UUID]domain.Filter

	// blindIndex makes Taken always answer false so the constraint backstop fires
	blindIndex bool
	err        error

	calls   atomic.Int64
	lookups atomic.Int64
	orderBy string
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rules: map[uuid.UUID]domain.Filter{}} }

func (f *fakeRepo) Taken(_ context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error) {
	f.calls.Add(1)
	f.lookups.Add(1)
	if f.err != nil {
		return false, f.err
	}
	if f.blindIndex {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rules {
		if r.OwnerID != owner || (exclude != nil && r.ID == *exclude) {
			continue
		}
		if field == domain.FieldName && r.NormalizedName == value {
			return true, nil
		}
		if field == domain.FieldURLPattern && r.NormalizedURLPattern == value {
			return true, nil
		}
	}
	return false, nil
}

// violation returns the unique error postgres would raise for f, name constraint first
func (f *fakeRepo) violation(n domain.Filter) error {
	for _, r := range f.rules {
		if r.OwnerID != n.OwnerID || r.ID == n.ID {
			continue
		}
		if r.NormalizedName == n.NormalizedName {
			return &pgconn.PgError{Code: "23505", ConstraintName: domain.Kind.Keys[0].Constraint,
				Message: `duplicate key value violates unique constraint`}
		}
		if r.NormalizedURLPattern == n.NormalizedURLPattern {
			return &pgconn.PgError{Code: "23505", ConstraintName: domain.Kind.Keys[1].Constraint,
				Message: `duplicate key value violates unique constraint`}
		}
	}
	return nil
}

func (f *fakeRepo) Insert(_ context.Context, n domain.Filter) error {
	f.calls.Add(1)
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.violation(n); err != nil {
		return err
	}
	f.rules[n.ID] = n
	return nil
}

func (f *fakeRepo) Update(_ context.Context, n domain.Filter) (bool, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rules[n.ID]
	if !ok || cur.OwnerID != n.OwnerID {
		return false, nil
	}
	if err := f.violation(n); err != nil {
		return false, err
	}
	n.MatchCount, n.LastMatchedAt, n.CreatedAt = cur.MatchCount, cur.LastMatchedAt, cur.CreatedAt
	f.rules[n.ID] = n
	return true, nil
}

func (f *fakeRepo) Get(_ context.Context, owner, id uuid.UUID) (domain.Filter, bool, error) {
	f.calls.Add(1)
	if f.err != nil {
		return domain.Filter{}, false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rules[id]
	if !ok || r.OwnerID != owner {
		return domain.Filter{}, false, nil
	}
	return r, true, nil
}

func (f *fakeRepo) Lock(ctx context.Context, owner, id uuid.UUID) (domain.Filter, bool, error) {
	return f.Get(ctx, owner, id)
}

func (f *fakeRepo) Delete(_ context.Context, owner, id uuid.UUID) (bool, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rules[id]
	if !ok || r.OwnerID != owner {
		return false, nil
	}
	delete(f.rules, id)
	return true, nil
}

func (f *fakeRepo) List(_ context.Context, owner uuid.UUID, _ domain.Criteria, orderBy string, limit, offset int) ([]domain.Filter, int, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.orderBy = f.orderBy + orderBy
	f.mu.Unlock()
	all, _ := f.Active(context.Background(), owner)
	total := len(all)
	if offset >= total {
		return []domain.Filter{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepo) Active(_ context.Context, owner uuid.UUID) ([]domain.Filter, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Filter
	for _, r := range f.rules {
		if r.OwnerID == owner && r.Active {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return out, nil
}

func (f *fakeRepo) Domains(_ context.Context, owner uuid.UUID) ([]string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	set := map[string]bool{}
	for _, r := range f.rules {
		if r.OwnerID == owner {
			set[r.Domain] = true
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRepo) IncrementMatch(_ context.Context, owner, id uuid.UUID, at time.Time) (bool, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rules[id]
	if !ok || r.OwnerID != owner {
		return false, nil
	}
	r.MatchCount++
	r.LastMatchedAt = &at
	f.rules[id] = r
	return true, nil
}

func (f *fakeRepo) rule(id uuid.UUID) domain.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rules[id]
}

type recSink struct {
	mu     sync.Mutex
	events []domain.MatchEvent
	err    error
}

func (s *recSink) MatchRecorded(_ context.Context, ev domain.MatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

var epoch = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newSvc(r *fakeRepo, opts ...Option) (*Svc, *ptime.Manual) {
	clock := ptime.NewManual(epoch)
	opts = append([]Option{WithClock(clock)}, opts...)
	return New(nopTx{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r }), opts...), clock
}

func ptr[T any](v T) *T { return &v }

func createInput(name, pattern, dom, regex string, group, prio int) domain.CreateInput {
	return domain.CreateInput{
		Name:              name,
		URLPattern:        pattern,
		Domain:            dom,
		ExtractionRegex:   regex,
		CaptureGroupIndex: ptr(group),
		Priority:          ptr(prio),
	}
}
