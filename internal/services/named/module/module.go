// Package module wires one named resource kind (groups or tags) into the API
package module

import (
	modkit "stashbox/internal/modkit"
	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/services/named/domain"
	namedhttp "stashbox/internal/services/named/http"
	namedrepo "stashbox/internal/services/named/repo"
	namedsvc "stashbox/internal/services/named/service"
)

// Module mounts one kind under /<kind name>
type Module struct {
	modkit.Mount
	svc *namedsvc.Svc
}

// New constructs the module for kind
func New(deps modkit.Deps, kind domain.Kind, opts ...modkit.Option) *Module {
	m := &Module{svc: namedsvc.New(kind, deps.PG, namedrepo.NewPG(kind))}
	m.Mount = modkit.NewMount(kind.Name, func(r httpkit.Router) { namedhttp.Register(r, m.svc) }, opts...)
	return m
}

// Service is the port for this kind
func (m *Module) Service() domain.ServicePort { return m.svc }
