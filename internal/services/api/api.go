// Package api provides the HTTP API for the application
package api

import (
	"time"

	"stashbox/internal/platform/config"
	"stashbox/internal/platform/logger"
	phttp "stashbox/internal/platform/net/http"
	"stashbox/internal/platform/net/middleware"
	"stashbox/internal/platform/store"

	"stashbox/internal/modkit"
	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/modkit/repokit"
	"stashbox/internal/modkit/swaggerkit"

	filtersmod "stashbox/internal/services/filters/module"
	metamod "stashbox/internal/services/meta/module"
	"stashbox/internal/services/named/domain"
	namedmod "stashbox/internal/services/named/module"
	ownersmod "stashbox/internal/services/owners/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Auth authenticates callers; nil trusts the X-Owner-ID header
	Auth middleware.AuthPort
	// AutoProvision creates unknown owners on first sight
	AutoProvision bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  repokit.WithBeginHooks(opt.Store.PG, repokit.LockTimeout(opt.Config.MayDuration("STASHBOX_API_TX_LOCK_TIMEOUT", 5*time.Second))),
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	auth := opt.Auth
	if auth == nil {
		auth = httpkit.NewHeaderPort(httpkit.DefaultOwnerHeader)
	}

	owners := ownersmod.New(deps, ownersmod.Options{AutoProvision: opt.AutoProvision})
	meta := metamod.New(pinger(opt.Store.PG), pinger(opt.Store.CH))

	// owner scoped modules sit behind auth and owner resolution
	scoped := []modkit.Module{
		owners,
		filtersmod.New(deps),
		namedmod.New(deps, domain.Groups),
		namedmod.New(deps, domain.Tags),
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		meta.MountRoutes(api)

		httpkit.Protected(api, auth, func(pr httpkit.Router) {
			pr.Use(httpkit.Owners(owners.Resolver(), phttp.JSON))
			for _, m := range scoped {
				m.MountRoutes(pr)
			}
		})
	})
}

// pinger returns the readiness seam of a store client, nil when it has none
func pinger(c any) store.Pinger {
	if p, ok := c.(store.Pinger); ok {
		return p
	}
	return nil
}
