// Package domain holds owner resolution types and ports
package domain

import (
	"context"

	"stashbox/internal/core/identity"

	"github.com/google/uuid"
)

// Resource is the owner resource name used in errors
const Resource = identity.OwnerResource

// CacheStats is a snapshot of the owner id cache
type CacheStats struct {
	Size      int     `json:"size"`
	Capacity  int     `json:"capacity"`
	TTL       string  `json:"ttl"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
	MissRate  float64 `json:"miss_rate"`
}

// Resolver turns an external owner id (from auth) into the internal owner id
type Resolver interface {
	Resolve(ctx context.Context, external string) (uuid.UUID, error)
}

// ServicePort is the owners service contract
type ServicePort interface {
	Resolver
	Stats() CacheStats
	Forget(external uuid.UUID)
	// Delete removes owner id with everything it owns; external is dropped from the cache
	Delete(ctx context.Context, id uuid.UUID, external string) error
}
