// Package repo provides postgres access for named resources
// one implementation serves every kind; table names come from domain.Kind
package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"stashbox/internal/core/identity"
	"stashbox/internal/core/normalize"
	"stashbox/internal/modkit/repokit"
	perr "stashbox/internal/platform/errors"
	"stashbox/internal/platform/store"
	"stashbox/internal/services/named/domain"

	"github.com/google/uuid"
)

// Repo defines the repository contract for one named resource kind
type Repo interface {
	Taken(ctx context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error)
	Insert(ctx context.Context, n domain.Resource) error
	Update(ctx context.Context, n domain.Resource) (bool, error)
	Get(ctx context.Context, owner, id uuid.UUID) (domain.Resource, bool, error)
	Lock(ctx context.Context, owner, id uuid.UUID) (domain.Resource, bool, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (bool, error)
	List(ctx context.Context, owner uuid.UUID, search *string, orderBy string, limit, offset int) ([]domain.Resource, int, error)
}

type (
	// PG implements the Repo interface using Postgres for one kind
	PG struct{ kind domain.Kind }

	queries struct {
		q    repokit.Queryer
		kind domain.Kind
	}
)

// NewPG creates a new Postgres repository binder for kind
func NewPG(kind domain.Kind) repokit.Binder[Repo] { return PG{kind: kind} }

// Bind binds a Postgres queryer to the Repo implementation
func (p PG) Bind(q repokit.Queryer) Repo { return &queries{q: q, kind: p.kind} }

var identityColumns = map[string]string{
	identity.FieldName: "normalized_name",
	identity.FieldSlug: "slug",
}

func (r *queries) columns() string {
	if r.kind.Description {
		return "id, user_id, name, normalized_name, slug, description, created_at, updated_at"
	}
	return "id, user_id, name, normalized_name, slug, null::varchar, created_at, updated_at"
}

func scanResource(row store.Row) (domain.Resource, error) {
	var n domain.Resource
	err := row.Scan(&n.ID, &n.OwnerID, &n.Name, &n.NormalizedName, &n.Slug, &n.Description, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (r *queries) Taken(ctx context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error) {
	col, ok := identityColumns[field]
	if !ok {
		return false, fmt.Errorf("%s: no identity column for field %q", r.kind.Name, field)
	}
	sql := `select exists (select 1 from ` + r.kind.Table + `
where user_id = $1 and ` + col + ` = $2 and ($3::uuid is null or id <> $3))`
	return store.Scalar[bool](ctx, r.q, sql, owner, value, exclude)
}

func (r *queries) Insert(ctx context.Context, n domain.Resource) error {
	if r.kind.Description {
		_, err := r.q.Exec(ctx, `insert into `+r.kind.Table+`
(id, user_id, name, normalized_name, slug, description, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8)`,
			n.ID, n.OwnerID, n.Name, n.NormalizedName, n.Slug, n.Description, n.CreatedAt, n.UpdatedAt)
		return err
	}
	_, err := r.q.Exec(ctx, `insert into `+r.kind.Table+`
(id, user_id, name, normalized_name, slug, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.OwnerID, n.Name, n.NormalizedName, n.Slug, n.CreatedAt, n.UpdatedAt)
	return err
}

func (r *queries) Update(ctx context.Context, n domain.Resource) (bool, error) {
	if r.kind.Description {
		return store.ExecOne(ctx, r.q, `update `+r.kind.Table+`
set name = $3, normalized_name = $4, slug = $5, description = $6, updated_at = $7
where id = $1 and user_id = $2`,
			n.ID, n.OwnerID, n.Name, n.NormalizedName, n.Slug, n.Description, n.UpdatedAt)
	}
	return store.ExecOne(ctx, r.q, `update `+r.kind.Table+`
set name = $3, normalized_name = $4, slug = $5, updated_at = $6
where id = $1 and user_id = $2`,
		n.ID, n.OwnerID, n.Name, n.NormalizedName, n.Slug, n.UpdatedAt)
}

func (r *queries) Get(ctx context.Context, owner, id uuid.UUID) (domain.Resource, bool, error) {
	sql := `select ` + r.columns() + ` from ` + r.kind.Table + ` where id = $1 and user_id = $2`
	return one(store.One(ctx, r.q, scanResource, sql, id, owner))
}

func (r *queries) Lock(ctx context.Context, owner, id uuid.UUID) (domain.Resource, bool, error) {
	sql := `select ` + r.columns() + ` from ` + r.kind.Table + ` where id = $1 and user_id = $2 for update`
	return one(store.One(ctx, r.q, scanResource, sql, id, owner))
}

func one(n domain.Resource, err error) (domain.Resource, bool, error) {
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Resource{}, false, nil
	}
	if err != nil {
		return domain.Resource{}, false, err
	}
	return n, true, nil
}

func (r *queries) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	return store.ExecOne(ctx, r.q, `delete from `+r.kind.Table+` where id = $1 and user_id = $2`, id, owner)
}

func (r *queries) List(
	ctx context.Context,
	owner uuid.UUID,
	search *string,
	orderBy string,
	limit, offset int,
) ([]domain.Resource, int, error) {
	where, args := searchWhere(owner, search)

	total, err := store.Scalar[int64](ctx, r.q, `select count(*) from `+r.kind.Table+` where `+where, args...)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Resource{}, 0, nil
	}
	n := len(args)
	sql := `select ` + r.columns() + ` from ` + r.kind.Table + ` where ` + where +
		` order by ` + orderBy +
		` limit $` + strconv.Itoa(n+1) + ` offset $` + strconv.Itoa(n+2)
	items, err := store.Many(ctx, r.q, scanResource, sql, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

// searchWhere matches the normalized search text anywhere in the normalized name
func searchWhere(owner uuid.UUID, search *string) (string, []any) {
	if search == nil {
		return "user_id = $1", []any{owner}
	}
	s, ok := normalize.Normalize(*search)
	if !ok {
		return "user_id = $1", []any{owner}
	}
	return `user_id = $1 and normalized_name like $2 escape '\'`, []any{owner, "%" + store.EscapeLike(s) + "%"}
}
