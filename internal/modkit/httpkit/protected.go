package httpkit

import (
	"path"

	"stashbox/internal/modkit/swaggerkit"
	phttp "stashbox/internal/platform/net/http"
	"stashbox/internal/platform/net/middleware"
)

// Protected mounts fn's routes behind p and records each one as secured for the api docs
// recorded paths are relative to r
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(securedRouter{Router: gr})
	})
}

type securedRouter struct {
	Router
	base string
}

func (s securedRouter) mark(p, method string) {
	swaggerkit.MarkSecurePath(path.Join("/", s.base, p), method)
}

func (s securedRouter) Route(prefix string, fn func(Router)) {
	s.Router.Route(prefix, func(sub Router) {
		fn(securedRouter{Router: sub, base: path.Join(s.base, prefix)})
	})
}

func (s securedRouter) Group(fn func(Router)) {
	s.Router.Group(func(sub Router) { fn(securedRouter{Router: sub, base: s.base}) })
}

func (s securedRouter) Get(p string, h phttp.Handler)    { s.mark(p, "get"); s.Router.Get(p, h) }
func (s securedRouter) Post(p string, h phttp.Handler)   { s.mark(p, "post"); s.Router.Post(p, h) }
func (s securedRouter) Put(p string, h phttp.Handler)    { s.mark(p, "put"); s.Router.Put(p, h) }
func (s securedRouter) Patch(p string, h phttp.Handler)  { s.mark(p, "patch"); s.Router.Patch(p, h) }
func (s securedRouter) Delete(p string, h phttp.Handler) { s.mark(p, "delete"); s.Router.Delete(p, h) }
