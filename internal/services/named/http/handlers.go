// Package http provides http transport for groups and tags
package http

import (
	stdhttp "net/http"

	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/services/named/domain"
	svc "stashbox/internal/services/named/service"

	"github.com/google/uuid"
)

// Register mounts the endpoints of one named kind on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s, resource: s.Kind().Resource()}
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.UpdateInput](r, "/{id}", h.update)
	httpkit.Delete(r, "/{id}", h.delete)
}

type handlers struct {
	svc      svc.Service
	resource string
}

// swagger:route GET /{kind} Named namedList
// @Summary List groups or tags
// @Tags Named
// @Produce json
// @Param kind path string true "groups or tags"
// @Param search query string false "Substring of the name"
// @Param page query int false "Page, zero based"
// @Param size query int false "Page size, max 100"
// @Param sort query []string false "field or field,asc|desc" collectionFormat(multi)
// @Success 200 {array} domain.Resource "ok"
// @Router /{kind} [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	req, err := httpkit.PageRequest(r)
	if err != nil {
		return nil, err
	}
	page, err := h.svc.List(r.Context(), owner, httpkit.QueryString(r, "search"), req)
	if err != nil {
		return nil, err
	}
	return httpkit.List(page.Items, page.Total, page.Page, page.Size, ""), nil
}

// swagger:route POST /{kind} Named namedCreate
// @Summary Create a group or tag
// @Tags Named
// @Accept json
// @Produce json
// @Param kind path string true "groups or tags"
// @Param payload body domain.CreateInput true "Resource"
// @Success 201 {object} domain.Resource "created"
// @Failure 409 {object} httpkit.Envelope "name or slug taken"
// @Router /{kind} [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return nil, err
	}
	n, err := h.svc.Create(r.Context(), owner, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(n), nil
}

// @Summary Get a group or tag
// @Tags Named
// @Produce json
// @Param kind path string true "groups or tags"
// @Param id path string true "Resource id"
// @Success 200 {object} domain.Resource "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /{kind}/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	owner, id, err := h.ownerAndID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), owner, id)
}

// @Summary Rename or redescribe a group or tag
// @Tags Named
// @Accept json
// @Produce json
// @Param kind path string true "groups or tags"
// @Param id path string true "Resource id"
// @Param payload body domain.UpdateInput true "Fields to change"
// @Success 200 {object} domain.Resource "ok"
// @Router /{kind}/{id} [patch]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	owner, id, err := h.ownerAndID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), owner, id, in)
}

// @Summary Delete a group or tag
// @Tags Named
// @Param kind path string true "groups or tags"
// @Param id path string true "Resource id"
// @Success 204 "deleted"
// @Router /{kind}/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	owner, id, err := h.ownerAndID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), owner, id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) ownerAndID(r *stdhttp.Request) (uuid.UUID, uuid.UUID, error) {
	owner, err := httpkit.Owner(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := httpkit.PathID(r, "id", h.resource)
	return owner, id, err
}
