// Package http provides http transport for filter rules
package http

import (
	stdhttp "net/http"

	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/services/filters/domain"
	svc "stashbox/internal/services/filters/service"

	"github.com/google/uuid"
)

// Register mounts filters endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/domains", h.domains)
	httpkit.PostJSON[domain.MatchInput](r, "/match", h.match)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.UpdateInput](r, "/{id}", h.update)
	httpkit.Delete(r, "/{id}", h.delete)
	httpkit.Post(r, "/{id}/match", h.record)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /filters Filters filtersList
// @Summary List filter rules
// @Tags Filters
// @Produce json
// @Param active query bool false "Only active or inactive rules"
// @Param domain query string false "Exact domain"
// @Param search query string false "Substring of name or url pattern"
// @Param page query int false "Page, zero based"
// @Param size query int false "Page size, max 100"
// @Param sort query []string false "field or field,asc|desc" collectionFormat(multi)
// @Success 200 {array} domain.Filter "ok"
// @Failure 400 {object} httpkit.Envelope "bad sort field"
// @Router /filters [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	active, err := httpkit.QueryBool(r, "active")
	if err != nil {
		return nil, err
	}
	req, err := httpkit.PageRequest(r)
	if err != nil {
		return nil, err
	}
	c := domain.Criteria{
		Active: active,
		Domain: httpkit.QueryString(r, "domain"),
		Search: httpkit.QueryString(r, "search"),
	}
	page, err := h.svc.List(r.Context(), owner, c, req)
	if err != nil {
		return nil, err
	}
	return httpkit.List(page.Items, page.Total, page.Page, page.Size, ""), nil
}

// swagger:route POST /filters Filters filtersCreate
// @Summary Create a filter rule
// @Tags Filters
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Rule"
// @Success 201 {object} domain.Filter "created"
// @Failure 409 {object} httpkit.Envelope "name or url pattern taken"
// @Router /filters [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	f, err := h.svc.Create(r.Context(), owner, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(f), nil
}

// swagger:route GET /filters/domains Filters filtersDomains
// @Summary Distinct domains of the caller's rules
// @Tags Filters
// @Produce json
// @Success 200 {array} string "ok"
// @Router /filters/domains [get]
func (h *handlers) domains(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Domains(r.Context(), owner)
}

// swagger:route POST /filters/match Filters filtersMatch
// @Summary Find the rule that extracts a value from a url and count the match
// @Tags Filters
// @Accept json
// @Produce json
// @Param payload body domain.MatchInput true "Url"
// @Success 200 {object} domain.MatchResult "ok"
// @Router /filters/match [post]
func (h *handlers) match(r *stdhttp.Request, in domain.MatchInput) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	m, ok, err := h.svc.MatchAndRecord(r.Context(), owner, in.URL)
	if err != nil {
		return nil, err
	}
	return domain.ResultOf(m, ok), nil
}

// swagger:route GET /filters/{id} Filters filtersGet
// @Summary Get a filter rule
// @Tags Filters
// @Produce json
// @Param id path string true "Rule id"
// @Success 200 {object} domain.Filter "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /filters/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	owner, id, err := ownerAndID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), owner, id)
}

// swagger:route PATCH /filters/{id} Filters filtersUpdate
// @Summary Update some fields of a filter rule
// @Tags Filters
// @Accept json
// @Produce json
// @Param id path string true "Rule id"
// @Param payload body domain.UpdateInput true "Fields to change"
// @Success 200 {object} domain.Filter "ok"
// @Router /filters/{id} [patch]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	owner, id, err := ownerAndID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), owner, id, in)
}

// swagger:route DELETE /filters/{id} Filters filtersDelete
// @Summary Delete a filter rule
// @Tags Filters
// @Param id path string true "Rule id"
// @Success 204 "deleted"
// @Router /filters/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	owner, id, err := ownerAndID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), owner, id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route POST /filters/{id}/match Filters filtersRecord
// @Summary Count one match of a rule
// @Tags Filters
// @Param id path string true "Rule id"
// @Success 204 "recorded"
// @Router /filters/{id}/match [post]
func (h *handlers) record(r *stdhttp.Request) (any, error) {
	owner, id, err := ownerAndID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.RecordMatch(r.Context(), owner, id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func ownerAndID(r *stdhttp.Request) (uuid.UUID, uuid.UUID, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := httpkit.PathID(r, "id", domain.Resource)
	return owner, id, err
}
