// Package paging holds page requests, sort allow-lists and page results for list endpoints
package paging

import (
	"math"
	"sort"
	"strings"

	perr "stashbox/internal/platform/errors"
)

// Page size bounds
const (
	DefaultSize = 20
	MaxSize     = 100
)

// Request asks for one page of a sorted listing
// Sort entries are "field" or "field,asc|desc"
type Request struct {
	Page int
	Size int
	Sort []string
}

// Order is one validated sort key
type Order struct {
	Field  string
	Column string
	Desc   bool
}

// Page is one page of results
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// TotalPages returns the number of pages for Total at Size
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Map converts the items of a page keeping its metadata
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, fn(it))
	}
	return Page[U]{Items: out, Page: p.Page, Size: p.Size, Total: p.Total}
}

// Offset returns the row offset of the page
func (r Request) Offset() int { return r.Page * r.Size }

// Allow maps public sort fields to storage columns
type Allow map[string]string

// Fields returns the allowed public fields in stable order
func (a Allow) Fields() []string {
	out := make([]string, 0, len(a))
	for f := range a {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Resolve validates page bounds and sort fields before any storage call
// Page < 0, a Page whose offset overflows int and unknown sort fields are validation errors
// Size is clamped to [1, MaxSize]
func (a Allow) Resolve(req Request) (Request, []Order, error) {
	if req.Page < 0 {
		return req, nil, perr.Validationf("page", "page must not be negative")
	}
	switch {
	case req.Size <= 0:
		req.Size = DefaultSize
	case req.Size > MaxSize:
		req.Size = MaxSize
	}
	if req.Page > math.MaxInt/req.Size {
		return req, nil, perr.Validationf("page", "page is too large")
	}
	orders, err := a.Parse(req.Sort)
	if err != nil {
		return req, nil, err
	}
	return req, orders, nil
}

// Parse validates sort entries against the allow-list
func (a Allow) Parse(entries []string) ([]Order, error) {
	var out []Order
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		field, dir, _ := strings.Cut(raw, ",")
		field = strings.TrimSpace(field)
		col, ok := a[field]
		if !ok {
			return nil, perr.Validationf("sort", "Invalid sort field '%s'. Allowed fields: [%s]",
				field, strings.Join(a.Fields(), ", "))
		}
		o := Order{Field: field, Column: col}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			o.Desc = true
		default:
			return nil, perr.Validationf("sort", "Invalid sort direction '%s'. Use asc or desc", strings.TrimSpace(dir))
		}
		out = append(out, o)
	}
	return out, nil
}

// OrderBy renders an ORDER BY list from validated orders
// defaults apply when orders is empty; tiebreak columns are always appended ascending
// columns come from the allow-list only, never from input
func OrderBy(orders, defaults []Order, tiebreak ...string) string {
	if len(orders) == 0 {
		orders = defaults
	}
	parts := make([]string, 0, len(orders)+len(tiebreak))
	used := map[string]bool{}
	for _, o := range orders {
		if used[o.Column] {
			continue
		}
		used[o.Column] = true
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, o.Column+" "+dir+" NULLS LAST")
	}
	for _, c := range tiebreak {
		if !used[c] {
			parts = append(parts, c+" ASC")
		}
	}
	return strings.Join(parts, ", ")
}
