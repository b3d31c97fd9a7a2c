// Package domain holds named resource kinds (groups, tags), their inputs and ports
package domain

import (
	"time"

	"stashbox/internal/core/identity"
	"stashbox/internal/core/paging"

	"github.com/google/uuid"
)

// Kind describes one named resource kind and where it is stored
type Kind struct {
	// Name is the module and route name, e.g. "groups"
	Name string
	// Table is the storage table; a fixed constant, never input
	Table string
	// Description reports whether the kind carries a description
	Description bool
	Identity    identity.Kind
}

// Resource returns the resource name used in errors
func (k Kind) Resource() string { return k.Identity.Resource }

// Groups are owner defined collections of stash items
var Groups = Kind{
	Name:        "groups",
	Table:       "item_groups",
	Description: true,
	Identity: identity.Kind{
		Resource: "ItemGroup",
		Keys: []identity.Key{
			{Field: identity.FieldName, Constraint: "item_groups_name_unique"},
			{Field: identity.FieldSlug, Constraint: "item_groups_slug_unique"},
		},
		OwnerConstraint: "item_groups_user_id_fkey",
	},
}

// Tags are owner defined labels
var Tags = Kind{
	Name:  "tags",
	Table: "tags",
	Identity: identity.Kind{
		Resource: "Tag",
		Keys: []identity.Key{
			{Field: identity.FieldName, Constraint: "tags_name_unique"},
			{Field: identity.FieldSlug, Constraint: "tags_slug_unique"},
		},
		OwnerConstraint: "tags_user_id_fkey",
	},
}

// SortFields maps public sort fields to columns
var SortFields = paging.Allow{
	"name":      "name",
	"slug":      "slug",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// DefaultOrder lists by name
var DefaultOrder = []paging.Order{{Field: "name", Column: "normalized_name"}}

// Resource is one named resource owned by exactly one owner
type Resource struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"-"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"-"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
