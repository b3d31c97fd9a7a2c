package domain

import (
	"context"

	"stashbox/internal/core/paging"

	"github.com/google/uuid"
)

// ServicePort defines the service contract for filters
type ServicePort interface {
	List(ctx context.Context, owner uuid.UUID, c Criteria, p paging.Request) (paging.Page[Filter], error)
	Get(ctx context.Context, owner, id uuid.UUID) (Filter, error)
	Create(ctx context.Context, owner uuid.UUID, in CreateInput) (Filter, error)
	Update(ctx context.Context, owner, id uuid.UUID, in UpdateInput) (Filter, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	Domains(ctx context.Context, owner uuid.UUID) ([]string, error)

	MatchURL(ctx context.Context, owner uuid.UUID, rawURL string) (Match, bool, error)
	RecordMatch(ctx context.Context, owner, id uuid.UUID) error
	MatchAndRecord(ctx context.Context, owner uuid.UUID, rawURL string) (Match, bool, error)
}

// EventSink receives match events after they are committed
type EventSink interface {
	MatchRecorded(ctx context.Context, ev MatchEvent) error
}
