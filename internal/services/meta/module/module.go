// Package module wires the meta endpoints into the API
package module

import (
	"time"

	modkit "stashbox/internal/modkit"
	"stashbox/internal/modkit/httpkit"
	metahttp "stashbox/internal/services/meta/http"
)

// Module serves health, readiness and build info under /meta
type Module struct{ modkit.Mount }

// New constructs the meta module; pg and ch may be nil
func New(pg, ch metahttp.Pinger, opts ...modkit.Option) *Module {
	d := metahttp.Deps{StartedAt: time.Now().UTC(), PG: pg, CH: ch}
	return &Module{modkit.NewMount("meta", func(r httpkit.Router) { metahttp.Register(r, d) }, opts...)}
}
