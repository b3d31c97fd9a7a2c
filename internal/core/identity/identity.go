// Package identity enforces per-owner uniqueness of named resources
// Every named resource kind (filters, groups, tags) declares its unique keys in a fixed
// precedence order. Reserve checks claims in that order before persisting and translates
// storage unique violations into Conflict errors naming the key and the raw input
package identity

import (
	"context"

	"stashbox/internal/core/normalize"
	perr "stashbox/internal/platform/errors"

	"github.com/google/uuid"
)

// OwnerResource is the resource name used when an owner reference is missing
const OwnerResource = "User"

// Owner fields that never appear in messages
const (
	OwnerFieldID         = "id"
	OwnerFieldExternalID = "externalId"
	OwnerFieldEmail      = "email"
)

func init() {
	perr.MarkSensitive(OwnerResource, OwnerFieldID, OwnerFieldExternalID, OwnerFieldEmail)
}

// Common key fields
const (
	FieldName = "name"
	FieldSlug = "slug"
)

// Key is one unique identity column of a resource kind
type Key struct {
	// Field is the public field name reported in conflicts
	Field string
	// Constraint is the storage constraint backing the key
	Constraint string
}

// Kind describes a named resource kind and its unique keys in precedence order
type Kind struct {
	Resource string
	Keys     []Key
	// OwnerConstraint is the foreign key to the owner, optional
	OwnerConstraint string
}

// KeyFor returns the key backed by constraint
func (k Kind) KeyFor(constraint string) (Key, bool) {
	for _, key := range k.Keys {
		if key.Constraint == constraint {
			return key, true
		}
	}
	return Key{}, false
}

// Claim is one value a resource asks to own under Field
type Claim struct {
	Field string
	// Raw is the user input reported back in a Conflict
	Raw string
	// Value is the canonical stored value compared for uniqueness
	Value string
}

// Index reports whether another resource of owner already holds value under field
// exclude, when set, is the resource being updated
type Index interface {
	Taken(ctx context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error)
}

// IndexFunc adapts a function to Index
type IndexFunc func(ctx context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error)

// Taken calls f
func (f IndexFunc) Taken(ctx context.Context, owner uuid.UUID, field, value string, exclude *uuid.UUID) (bool, error) {
	return f(ctx, owner, field, value, exclude)
}

// Names is the derived identity of a raw display name
type Names struct {
	Normalized string
	Slug       string
}

// Reservation bundles the inputs of a Reserve call
type Reservation struct {
	Kind    Kind
	Owner   uuid.UUID
	Exclude *uuid.UUID
	Claims  []Claim
}

// Registry enforces identity for every named resource kind
// it is stateless and safe for concurrent use
type Registry struct{}

// New returns a Registry
func New() *Registry { return &Registry{} }

// Derive computes the normalized name and slug of raw
// field names the input in validation errors
func (r *Registry) Derive(field, raw string) (Names, error) {
	n, ok := normalize.Normalize(raw)
	if !ok {
		return Names{}, perr.Validationf(field, "%s must not be blank", field)
	}
	s, ok := normalize.Slugify(raw)
	if !ok {
		return Names{}, perr.Validationf(field, "%s must contain at least one letter or digit", field)
	}
	return Names{Normalized: n, Slug: s}, nil
}

// Reserve checks every claim in key precedence order and then runs persist
// the first key already taken wins; a unique violation raised by persist is translated
// the same way so racing writers still see a Conflict and never raw storage text
func (r *Registry) Reserve(ctx context.Context, res Reservation, idx Index, persist func(context.Context) error) error {
	if idx != nil {
		for _, c := range r.ordered(res.Kind, res.Claims) {
			taken, err := idx.Taken(ctx, res.Owner, c.Field, c.Value, res.Exclude)
			if err != nil {
				return perr.Internal(err, res.Kind.Resource+".lookup")
			}
			if taken {
				return perr.ConflictResource(res.Kind.Resource, c.Field, c.Raw)
			}
		}
	}
	if err := persist(ctx); err != nil {
		return r.Translate(res, err)
	}
	return nil
}

// ReserveName derives names for raw and reserves both name and slug
func (r *Registry) ReserveName(
	ctx context.Context,
	kind Kind,
	owner uuid.UUID,
	raw string,
	exclude *uuid.UUID,
	idx Index,
	persist func(context.Context, Names) error,
) (Names, error) {
	names, err := r.Derive(FieldName, raw)
	if err != nil {
		return Names{}, err
	}
	res := Reservation{
		Kind:    kind,
		Owner:   owner,
		Exclude: exclude,
		Claims: []Claim{
			{Field: FieldName, Raw: raw, Value: names.Normalized},
			{Field: FieldSlug, Raw: raw, Value: names.Slug},
		},
	}
	err = r.Reserve(ctx, res, idx, func(ctx context.Context) error { return persist(ctx, names) })
	if err != nil {
		return Names{}, err
	}
	return names, nil
}

// Translate maps a persistence error into the domain taxonomy
// project errors pass through untouched
func (r *Registry) Translate(res Reservation, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	switch {
	case perr.IsDuplicateKey(err):
		key, ok := res.Kind.KeyFor(perr.ConstraintOf(err))
		if !ok {
			return perr.Internal(err, res.Kind.Resource+".persist")
		}
		return perr.ConflictResource(res.Kind.Resource, key.Field, rawFor(res.Claims, key.Field))
	case perr.IsForeignKeyViolation(err) && res.Kind.OwnerConstraint != "" &&
		perr.ConstraintOf(err) == res.Kind.OwnerConstraint:
		return perr.NotFoundResource(OwnerResource, OwnerFieldID, res.Owner)
	}
	return perr.Internal(err, res.Kind.Resource+".persist")
}

// ordered returns claims sorted by the kind's key precedence; unknown fields go last
func (r *Registry) ordered(kind Kind, claims []Claim) []Claim {
	out := make([]Claim, 0, len(claims))
	seen := make([]bool, len(claims))
	for _, k := range kind.Keys {
		for i, c := range claims {
			if !seen[i] && c.Field == k.Field {
				out = append(out, c)
				seen[i] = true
			}
		}
	}
	for i, c := range claims {
		if !seen[i] {
			out = append(out, c)
		}
	}
	return out
}

func rawFor(claims []Claim, field string) string {
	for _, c := range claims {
		if c.Field == field {
			return c.Raw
		}
	}
	return ""
}
