// Package domain holds filter rule types, inputs and ports
package domain

import (
	"time"

	"stashbox/internal/core/identity"
	"stashbox/internal/core/paging"

	"github.com/google/uuid"
)

// Resource is the filter resource name used in errors
const Resource = "UserFilter"

// Public field names reported in conflicts and not found errors
const (
	FieldID         = "id"
	FieldName       = identity.FieldName
	FieldURLPattern = "url_pattern"
)

// Capture group bounds
const (
	MinCaptureGroup     = 0
	MaxCaptureGroup     = 20
	DefaultCaptureGroup = 1
)

// Kind is the identity of filter rules: name first, then url pattern
var Kind = identity.Kind{
	Resource: Resource,
	Keys: []identity.Key{
		{Field: FieldName, Constraint: "user_filters_normalized_filter_name_unique"},
		{Field: FieldURLPattern, Constraint: "user_filters_normalized_url_pattern_unique"},
	},
	OwnerConstraint: "user_filters_user_id_fkey",
}

// SortFields maps public sort fields to columns
var SortFields = paging.Allow{
	"filterName":    "filter_name",
	"priority":      "priority",
	"active":        "is_active",
	"matchCount":    "match_count",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"lastMatchedAt": "last_matched_at",
}

// DefaultOrder is the listing order without sort; it matches the engine order
var DefaultOrder = []paging.Order{
	{Field: "priority", Column: "priority", Desc: true},
	{Field: "createdAt", Column: "created_at"},
}

// Filter is one extraction rule owned by exactly one owner
type Filter struct {
	ID                   uuid.UUID  `json:"id"`
	OwnerID              uuid.UUID  `json:"-"`
	Name                 string     `json:"name"`
	NormalizedName       string     `json:"-"`
	Description          *string    `json:"description,omitempty"`
	URLPattern           string     `json:"url_pattern"`
	NormalizedURLPattern string     `json:"-"`
	Domain               string     `json:"domain"`
	ExtractionRegex      string     `json:"extraction_regex"`
	CaptureGroupIndex    int        `json:"capture_group_index"`
	Priority             int        `json:"priority"`
	Active               bool       `json:"active"`
	MatchCount           int64      `json:"match_count"`
	LastMatchedAt        *time.Time `json:"last_matched_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Criteria narrows a listing; nil fields do not filter
type Criteria struct {
	Active *bool
	Domain *string
	Search *string
}

// Match is the winning rule and its extracted value
type Match struct {
	FilterID uuid.UUID `json:"filter_id"`
	Value    string    `json:"value"`
}

// MatchEvent is emitted after a match was recorded
type MatchEvent struct {
	OwnerID  uuid.UUID
	FilterID uuid.UUID
	At       time.Time
}
