// Package repo provides postgres access for owners
package repo

import (
	"context"

	"stashbox/internal/modkit/repokit"

	"github.com/google/uuid"
)

// Repo defines the repository contract for owners
type Repo interface {
	// InternalID returns the internal id for external; found is false when no owner exists
	InternalID(ctx context.Context, external uuid.UUID) (id uuid.UUID, found bool, err error)
	// Provision inserts the owner if missing and returns its internal id
	Provision(ctx context.Context, id, external uuid.UUID) (uuid.UUID, error)
	// Delete removes the owner; filters, groups and tags go with it through on delete cascade
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
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

func (r *queries) InternalID(ctx context.Context, external uuid.UUID) (uuid.UUID, bool, error) {
	const sql = `select id from users where external_id = $1`
	rows, err := r.q.Query(ctx, sql, external)
	if err != nil {
		return uuid.Nil, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return uuid.Nil, false, rows.Err()
	}
	var id uuid.UUID
	if err := rows.Scan(&id); err != nil {
		return uuid.Nil, false, err
	}
	return id, true, rows.Err()
}

func (r *queries) Provision(ctx context.Context, id, external uuid.UUID) (uuid.UUID, error) {
	// the no-op update makes RETURNING yield the existing row on conflict
	const sql = `
insert into users (id, external_id)
values ($1, $2)
on conflict (external_id) do update set external_id = excluded.external_id
returning id
`
	var out uuid.UUID
	if err := r.q.QueryRow(ctx, sql, id, external).Scan(&out); err != nil {
		return uuid.Nil, err
	}
	return out, nil
}

func (r *queries) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.q.Exec(ctx, `delete from users where id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
