// Package module wires owner resolution into the API
package module

import (
	modkit "stashbox/internal/modkit"
	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/services/owners/domain"
	ownershttp "stashbox/internal/services/owners/http"
	ownersrepo "stashbox/internal/services/owners/repo"
	ownerssvc "stashbox/internal/services/owners/service"
)

// Module mounts the owner routes under /owners and resolves callers for the other modules
type Module struct {
	modkit.Mount
	svc *ownerssvc.Svc
}

// New constructs the owners module; zero fields in overrides keep the configured values
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	if overrides.CacheSize != 0 {
		o.CacheSize = overrides.CacheSize
	}
	if overrides.CacheTTL != 0 {
		o.CacheTTL = overrides.CacheTTL
	}
	o.AutoProvision = overrides.AutoProvision

	m := &Module{svc: ownerssvc.New(deps.PG, ownersrepo.NewPG(), ownerssvc.Options{
		CacheSize:     o.CacheSize,
		CacheTTL:      o.CacheTTL,
		AutoProvision: o.AutoProvision,
	})}
	m.Mount = modkit.NewMount("owners", func(r httpkit.Router) { ownershttp.Register(r, m.svc) }, opts...)
	return m
}

// Resolver maps authenticated callers to owner ids
func (m *Module) Resolver() domain.Resolver { return m.svc }
