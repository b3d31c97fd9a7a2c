package module

import "stashbox/internal/platform/config"

// Options controls the filters module
type Options struct {
	// MatchEvents appends recorded matches to clickhouse when a clickhouse seam is wired
	MatchEvents bool
}

// FromConfig reads with FILTERS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("FILTERS_")
	return Options{MatchEvents: c.MayBool("MATCH_EVENTS", true)}
}
