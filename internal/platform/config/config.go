// Package config reads service settings from the environment
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"stashbox/internal/platform/logger"
)

// Conf reads env vars under a key prefix; the zero value reads unprefixed keys
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a view whose keys are prefixed by p on top of the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(key string) (name, value string) {
	name = c.prefix + key
	return name, strings.TrimSpace(os.Getenv(name))
}

// MustString returns the value of key and panics when it is unset or blank
func (c Conf) MustString(key string) string {
	name, v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", name).Msg("missing required env")
	}
	return v
}

// MayString returns the value of key or def
func (c Conf) MayString(key, def string) string {
	if _, v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns key parsed as an int, def when unset or unparsable
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, strconv.Atoi)
}

// MayBool returns key parsed as a bool, def when unset or unparsable
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, strconv.ParseBool)
}

// MayDuration returns key parsed as a duration (250ms, 5s, 10m), def when unset or unparsable
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	name, raw := c.lookup(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		logger.Get().Warn().Str("key", name).Str("value", raw).Interface("default", def).Msg("unparsable env, using default")
		return def
	}
	return v
}
