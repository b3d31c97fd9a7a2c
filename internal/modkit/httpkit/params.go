package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	"stashbox/internal/core/paging"
	perrs "stashbox/internal/platform/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Param returns a path parameter
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

// PathID parses a uuid path parameter
// a malformed id is reported as NotFound for resource, the same as a missing one
func PathID(r *http.Request, name, resource string) (uuid.UUID, error) {
	raw := Param(r, name)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, perrs.NotFoundResource(resource, name, raw)
	}
	return id, nil
}

// QueryString returns a query value or nil when absent
func QueryString(r *http.Request, name string) *string {
	q := r.URL.Query()
	if !q.Has(name) {
		return nil
	}
	v := q.Get(name)
	return &v
}

// QueryBool parses an optional boolean query value
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := QueryString(r, name)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*raw))
	if err != nil {
		return nil, perrs.Validationf(name, "%s must be true or false", name)
	}
	return &b, nil
}

// QueryInt parses an optional integer query value, def when absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := QueryString(r, name)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return 0, perrs.Validationf(name, "%s must be an integer", name)
	}
	return n, nil
}

// PageRequest reads page, size and repeated sort values
func PageRequest(r *http.Request) (paging.Request, error) {
	page, err := QueryInt(r, "page", 0)
	if err != nil {
		return paging.Request{}, err
	}
	size, err := QueryInt(r, "size", paging.DefaultSize)
	if err != nil {
		return paging.Request{}, err
	}
	return paging.Request{Page: page, Size: size, Sort: r.URL.Query()["sort"]}, nil
}
