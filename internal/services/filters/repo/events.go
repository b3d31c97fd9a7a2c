package repo

import (
	"context"

	"stashbox/internal/platform/store"
	"stashbox/internal/services/filters/domain"
)

// EventsTable is the clickhouse append log of recorded matches
const EventsTable = "filter_match_events"

// CHEvents appends match events to clickhouse
type CHEvents struct{ ch store.Clickhouse }

// NewCHEvents returns a sink writing to c
func NewCHEvents(c store.Clickhouse) *CHEvents { return &CHEvents{ch: c} }

// MatchRecorded inserts one event row
func (e *CHEvents) MatchRecorded(ctx context.Context, ev domain.MatchEvent) error {
	return e.ch.Insert(ctx, EventsTable, [][]any{{ev.OwnerID, ev.FilterID, ev.At.UTC()}})
}
