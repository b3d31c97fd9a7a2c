// Package module wires filter rules into the API
package module

import (
	modkit "stashbox/internal/modkit"
	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/services/filters/domain"
	filtershttp "stashbox/internal/services/filters/http"
	filtersrepo "stashbox/internal/services/filters/repo"
	filterssvc "stashbox/internal/services/filters/service"
)

// Module mounts the filter rule routes under /filters
type Module struct {
	modkit.Mount
	svc *filterssvc.Svc
}

// New constructs the filters module; match events go to clickhouse when deps.CH is set
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)

	var svcOpts []filterssvc.Option
	if o.MatchEvents && deps.CH != nil {
		svcOpts = append(svcOpts, filterssvc.WithEvents(filtersrepo.NewCHEvents(deps.CH)))
	}
	m := &Module{svc: filterssvc.New(deps.PG, filtersrepo.NewPG(), svcOpts...)}
	m.Mount = modkit.NewMount("filters", func(r httpkit.Router) { filtershttp.Register(r, m.svc) }, opts...)
	return m
}

// Service is the filters port for other modules
func (m *Module) Service() domain.ServicePort { return m.svc }
