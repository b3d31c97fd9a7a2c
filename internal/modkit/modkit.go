// Package modkit is the wiring shared by the service modules
package modkit

import (
	"net/http"
	"strings"

	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/modkit/repokit"
	"stashbox/internal/platform/config"
	"stashbox/internal/platform/logger"
	"stashbox/internal/platform/store"
)

// Deps are handed to every module constructor; CH is nil when clickhouse is off
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// Module is what the api mounts
type Module interface {
	Name() string
	MountRoutes(r httpkit.Router)
}

// Option adjusts where a module mounts
type Option func(*Mount)

// WithPrefix mounts the module under p instead of /<name>
func WithPrefix(p string) Option { return func(m *Mount) { m.prefix = p } }

// WithMiddlewares runs mw in front of the module's routes only
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(m *Mount) { m.mw = append(m.mw, mw...) }
}

// Mount is embedded by modules to satisfy Module
type Mount struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	register func(httpkit.Router)
}

// NewMount places register under /<name>; it panics on a blank name or a root prefix
func NewMount(name string, register func(httpkit.Router), opts ...Option) Mount {
	if strings.TrimSpace(name) == "" {
		panic("modkit: module name is required")
	}
	m := Mount{name: name, prefix: name, register: register}
	for _, o := range opts {
		o(&m)
	}
	m.prefix = "/" + strings.Trim(strings.TrimSpace(m.prefix), "/")
	if m.prefix == "/" {
		panic("modkit: module " + name + " needs a non root prefix")
	}
	return m
}

func (m Mount) Name() string   { return m.name }
func (m Mount) Prefix() string { return m.prefix }

// MountRoutes registers the module under its prefix
func (m Mount) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(sub httpkit.Router) {
		sub.Use(m.mw...)
		if m.register != nil {
			m.register(sub)
		}
	})
}
