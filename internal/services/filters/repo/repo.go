// Package repo provides postgres access for filter rules
package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stashbox/internal/core/normalize"
	"stashbox/internal/modkit/repokit"
	perr "stashbox/internal/platform/errors"
	"stashbox/internal/platform/store"
	"stashbox/internal/services/filters/domain"

	"github.com/google/uuid"
)

// Repo defines the repository contract for filter rules
// every method scopes by owner; a foreign id behaves like a missing one
type Repo interface {
	// Taken reports whether another rule of owner holds value under field
	Taken(ctx context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error)

	Insert(ctx context.Context, f domain.Filter) error
	// Update writes the mutable columns; match stats are never written here
	Update(ctx context.Context, f domain.Filter) (bool, error)
	Get(ctx context.Context, owner, id uuid.UUID) (domain.Filter, bool, error)
	// Lock reads the rule with a row lock, must run inside a transaction
	Lock(ctx context.Context, owner, id uuid.UUID) (domain.Filter, bool, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (bool, error)

	List(ctx context.Context, owner uuid.UUID, c domain.Criteria, orderBy string, limit, offset int) ([]domain.Filter, int, error)
	// Active returns the owner's active rules in engine order
	Active(ctx context.Context, owner uuid.UUID) ([]domain.Filter, error)
	Domains(ctx context.Context, owner uuid.UUID) ([]string, error)

	// IncrementMatch bumps the counter in one statement; false when no row matched
	IncrementMatch(ctx context.Context, owner, id uuid.UUID, at time.Time) (bool, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const columns = `id, user_id, filter_name, normalized_filter_name, description,
url_pattern, normalized_url_pattern, domain_filter, extraction_regex,
capture_group_index, priority, is_active, match_count, last_matched_at,
created_at, updated_at`

// EngineOrder is the candidate order of the match engine
const EngineOrder = "priority DESC, created_at ASC, id ASC"

// identity columns by public field
var identityColumns = map[string]string{
	domain.FieldName:       "normalized_filter_name",
	domain.FieldURLPattern: "normalized_url_pattern",
}

func scanFilter(row store.Row) (domain.Filter, error) {
	var f domain.Filter
	err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.NormalizedName,
		&f.Description,
		&f.URLPattern,
		&f.NormalizedURLPattern,
		&f.Domain,
		&f.ExtractionRegex,
		&f.CaptureGroupIndex,
		&f.Priority,
		&f.Active,
		&f.MatchCount,
		&f.LastMatchedAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

func (r *queries) Taken(ctx context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error) {
	col, ok := identityColumns[field]
	if !ok {
		return false, fmt.Errorf("filters: no identity column for field %q", field)
	}
	// col comes from the fixed map above
	sql := `select exists (
select 1 from user_filters
where user_id = $1 and ` + col + ` = $2 and ($3::uuid is null or id <> $3)
)`
	return store.Scalar[bool](ctx, r.q, sql, owner, value, exclude)
}

func (r *queries) Insert(ctx context.Context, f domain.Filter) error {
	const sql = `
insert into user_filters (` + columns + `)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`
	_, err := r.q.Exec(ctx, sql,
		f.ID, f.OwnerID, f.Name, f.NormalizedName, f.Description,
		f.URLPattern, f.NormalizedURLPattern, f.Domain, f.ExtractionRegex,
		f.CaptureGroupIndex, f.Priority, f.Active, f.MatchCount, f.LastMatchedAt,
		f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func (r *queries) Update(ctx context.Context, f domain.Filter) (bool, error) {
	const sql = `
update user_filters set
filter_name = $3,
normalized_filter_name = $4,
description = $5,
url_pattern = $6,
normalized_url_pattern = $7,
domain_filter = $8,
extraction_regex = $9,
capture_group_index = $10,
priority = $11,
is_active = $12,
updated_at = $13
where id = $1 and user_id = $2
`
	return store.ExecOne(ctx, r.q, sql,
		f.ID, f.OwnerID, f.Name, f.NormalizedName, f.Description,
		f.URLPattern, f.NormalizedURLPattern, f.Domain, f.ExtractionRegex,
		f.CaptureGroupIndex, f.Priority, f.Active, f.UpdatedAt,
	)
}

func (r *queries) Get(ctx context.Context, owner, id uuid.UUID) (domain.Filter, bool, error) {
	const sql = `select ` + columns + ` from user_filters where id = $1 and user_id = $2`
	return one(store.One(ctx, r.q, scanFilter, sql, id, owner))
}

func (r *queries) Lock(ctx context.Context, owner, id uuid.UUID) (domain.Filter, bool, error) {
	const sql = `select ` + columns + ` from user_filters where id = $1 and user_id = $2 for update`
	return one(store.One(ctx, r.q, scanFilter, sql, id, owner))
}

func one(f domain.Filter, err error) (domain.Filter, bool, error) {
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Filter{}, false, nil
	}
	if err != nil {
		return domain.Filter{}, false, err
	}
	return f, true, nil
}

func (r *queries) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	return store.ExecOne(ctx, r.q, `delete from user_filters where id = $1 and user_id = $2`, id, owner)
}

func (r *queries) List(
	ctx context.Context,
	owner uuid.UUID,
	c domain.Criteria,
	orderBy string,
	limit, offset int,
) ([]domain.Filter, int, error) {
	where, args := compileCriteria(owner, c)

	total, err := store.Scalar[int64](ctx, r.q, `select count(*) from user_filters where `+where, args...)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Filter{}, 0, nil
	}

	n := len(args)
	sql := `select ` + columns + ` from user_filters where ` + where +
		` order by ` + orderBy +
		` limit $` + strconv.Itoa(n+1) + ` offset $` + strconv.Itoa(n+2)
	items, err := store.Many(ctx, r.q, scanFilter, sql, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []domain.Filter{}
	}
	return items, int(total), nil
}

func (r *queries) Active(ctx context.Context, owner uuid.UUID) ([]domain.Filter, error) {
	const sql = `select ` + columns + ` from user_filters
where user_id = $1 and is_active
order by ` + EngineOrder
	return store.Many(ctx, r.q, scanFilter, sql, owner)
}

func (r *queries) Domains(ctx context.Context, owner uuid.UUID) ([]string, error) {
	const sql = `select distinct domain_filter from user_filters where user_id = $1 order by domain_filter asc`
	out, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var d string
		err := row.Scan(&d)
		return d, err
	}, sql, owner)
	if out == nil && err == nil {
		out = []string{}
	}
	return out, err
}

func (r *queries) IncrementMatch(ctx context.Context, owner, id uuid.UUID, at time.Time) (bool, error) {
	const sql = `
update user_filters
set match_count = match_count + 1, last_matched_at = $3
where id = $1 and user_id = $2
`
	return store.ExecOne(ctx, r.q, sql, id, owner, at)
}

// compileCriteria turns typed criteria into one where fragment and its args
// owner is always $1; absent or blank criteria do not filter
func compileCriteria(owner uuid.UUID, c domain.Criteria) (string, []any) {
	parts := []string{"user_id = $1"}
	args := []any{owner}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if c.Active != nil {
		parts = append(parts, "is_active = "+next(*c.Active))
	}
	if c.Domain != nil {
		if d := strings.TrimSpace(*c.Domain); d != "" {
			parts = append(parts, "domain_filter = "+next(d))
		}
	}
	if c.Search != nil {
		if s, ok := normalize.Normalize(*c.Search); ok {
			p := next("%" + store.EscapeLike(s) + "%")
			parts = append(parts, `(normalized_filter_name like `+p+` escape '\' or normalized_url_pattern like `+p+` escape '\')`)
		}
	}
	return strings.Join(parts, " and "), args
}
