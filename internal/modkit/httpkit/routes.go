// Package httpkit is what service modules use to mount routes and read the caller
// modules import it instead of the platform http packages
package httpkit

import (
	"net/http"

	phttp "stashbox/internal/platform/net/http"
)

type (
	Router   = phttp.Router
	Envelope = phttp.Envelope
	Response = phttp.Response
)

func Created(data any) Response { return phttp.Created(data) }
func NoContent() Response       { return phttp.NoContent() }

// List answers one page of items
func List(items any, total, page, size int, cursor string) Response {
	return phttp.List(items, total, page, size, cursor)
}

// Get mounts a handler that reads no body
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, phttp.Call(h)) }

// Post mounts a POST handler that reads no body
func Post(r Router, path string, h func(*http.Request) (any, error)) { r.Post(path, phttp.Call(h)) }

// Delete mounts a DELETE handler
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, phttp.Call(h))
}

// PostJSON mounts a POST handler with a validated T body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// PatchJSON mounts a PATCH handler with a validated T body
func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Patch(path, phttp.JSONHandler(h))
}

// MountAPIV1 scopes mount under /api/v1 with mw applied
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		api.Use(mw...)
		mount(api)
	})
}
