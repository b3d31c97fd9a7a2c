// Package http provides health, readiness and build endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"stashbox/internal/core/version"
	"stashbox/internal/modkit/httpkit"
	ptime "stashbox/internal/platform/time"
)

// Pinger is satisfied by store adapters that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies; nil stores are reported as skipped
type Deps struct {
	StartedAt time.Time
	Clock     ptime.Clock
	PG        Pinger
	CH        Pinger
}

type handlers struct{ deps Deps }

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = ptime.System{}
	}
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"stashbox-api"`
	Started string `json:"started" example:"2026-03-01T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"`
}

// ReadyCheck is one dependency check; status is ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness; status is ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: version.Service,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Clock.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness with store checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	pg := check(ctx, "pg", h.deps.PG)
	ch := check(ctx, "ch", h.deps.CH)

	status := "ok"
	switch {
	case pg.Status == "fail":
		status = "fail"
	case ch.Status == "fail":
		// match events are optional
		status = "degraded"
	}
	return ReadyResponse{Status: status, Checks: []ReadyCheck{pg, ch}}, nil
}

func check(ctx context.Context, name string, p Pinger) ReadyCheck {
	if p == nil {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
