// Package config reads tool settings from the environment.
// Command line flags take precedence; env only supplies defaults
package config

import (
	"strconv"
	"strings"
	"time"

	"qabundle/internal/platform/config/raw"
	"qabundle/internal/platform/logger"
)

// Conf is a prefixed env view that logs bad values, e.g. Prefix("PUBLISH_")
type Conf struct{ env raw.Conf }

// New returns the unprefixed view
func New() Conf { return Conf{env: raw.New()} }

// Prefix appends p to the view's prefix
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// Key is the full variable name for k
func (c Conf) Key(k string) string { return c.env.Key(k) }

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

// MayInt returns the value or def; an unparsable value is logged and ignored
func (c Conf) MayInt(key string, def int) int {
	return parsed(c, key, def, strconv.Atoi)
}

// MayBool returns the value or def; an unparsable value is logged and ignored
func (c Conf) MayBool(key string, def bool) bool {
	return parsed(c, key, def, strconv.ParseBool)
}

// MayDuration returns the value or def; an unparsable value is logged and ignored
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parsed(c, key, def, time.ParseDuration)
}

// MayEnum returns the lower-cased value when it matches one of allowed (any case), def when unset.
// Any other value panics: a typo in a sink name must not fall through to a default
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

func parsed[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).Msg("invalid value; using default")
		return def
	}
	return v
}
