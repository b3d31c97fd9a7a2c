package domain

import (
	"context"

	"stashbox/internal/core/paging"

	"github.com/google/uuid"
)

// ServicePort defines the service contract for one named resource kind
type ServicePort interface {
	Kind() Kind
	List(ctx context.Context, owner uuid.UUID, search *string, p paging.Request) (paging.Page[Resource], error)
	Get(ctx context.Context, owner, id uuid.UUID) (Resource, error)
	Create(ctx context.Context, owner uuid.UUID, in CreateInput) (Resource, error)
	Update(ctx context.Context, owner, id uuid.UUID, in UpdateInput) (Resource, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}
