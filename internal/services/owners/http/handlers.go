// Package http provides http transport for owners
package http

import (
	stdhttp "net/http"

	"stashbox/internal/modkit/httpkit"
	svc "stashbox/internal/services/owners/service"
)

// Register mounts owners endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/me", h.me)
	httpkit.Delete(r, "/me", h.deleteMe)
	httpkit.Get(r, "/cache/stats", h.cacheStats)
}

// Me is the caller as seen by the API
type Me struct {
	OwnerID    string `json:"owner_id"`
	ExternalID string `json:"external_id"`
}

type handlers struct{ svc svc.Service }

// swagger:route GET /owners/cache/stats Owners ownersCacheStats
// @Summary Owner id cache statistics
// @Tags Owners
// @Produce json
// @Success 200 {object} domain.CacheStats "ok"
// @Router /owners/cache/stats [get]
func (h *handlers) cacheStats(_ *stdhttp.Request) (any, error) {
	return h.svc.Stats(), nil
}

// @Summary The resolved owner of the caller
// @Tags Owners
// @Produce json
// @Success 200 {object} Me "ok"
// @Router /owners/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	return Me{
		OwnerID:    httpkit.MustOwner(r).String(),
		ExternalID: httpkit.MustUser(r),
	}, nil
}

// @Summary Delete the caller with all their filters, groups and tags
// @Tags Owners
// @Success 204 "deleted"
// @Failure 404 {object} httpkit.Envelope "already gone"
// @Router /owners/me [delete]
func (h *handlers) deleteMe(r *stdhttp.Request) (any, error) {
	if err := h.svc.Delete(r.Context(), httpkit.MustOwner(r), httpkit.MustUser(r)); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
