package module

import (
	"time"

	"stashbox/internal/platform/config"
	"stashbox/internal/services/owners/service"
)

// Options controls owner resolution
type Options struct {
	CacheSize     int
	CacheTTL      time.Duration
	AutoProvision bool
}

// FromConfig reads with OWNERS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("OWNERS_")
	return Options{
		CacheSize: c.MayInt("CACHE_SIZE", service.DefaultCacheSize),
		CacheTTL:  c.MayDuration("CACHE_TTL", service.DefaultCacheTTL),
	}
}
