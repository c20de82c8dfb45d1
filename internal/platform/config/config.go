// Package config reads gridwatch settings from environment variables.
// May* accessors fall back to a default and log malformed values; Must* panic
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gridwatch/internal/platform/logger"
)

// Conf is a prefixed view over the environment, e.g. config.New().Prefix("OUTAGE_")
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix returns a child view; prefixes nest
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// may parses key with parse, falling back to def when unset or malformed
func may[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// MustString returns the value or panics when it is unset or blank
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the trimmed value or def
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value as an int or def
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, "int", strconv.Atoi)
}

// MayFloat64 returns the value as a float or def, used for coordinates and tariffs
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, "float64", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value as a bool or def
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns the value as a duration (250ms, 5m, 1h) or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, "duration", time.ParseDuration)
}

// MayURL returns an absolute URL without its trailing slash, or def
func (c Conf) MayURL(key, def string) string {
	return may(c, key, def, "absolute URL", func(s string) (string, error) {
		u, err := url.Parse(s)
		if err == nil && !u.IsAbs() {
			err = url.InvalidHostError(s)
		}
		return strings.TrimRight(s, "/"), err
	})
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayPairs parses "k=v,k2=v2" into ordered pairs. Entries without "=" are skipped
func (c Conf) MayPairs(key string, def [][2]string) [][2]string {
	var out [][2]string
	for _, p := range c.MayCSV(key, nil) {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			logger.Get().Warn().Str("key", c.key(key)).Str("entry", p).Msg("skipping malformed pair")
			continue
		}
		out = append(out, [2]string{strings.TrimSpace(k), strings.TrimSpace(v)})
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayLocation loads an IANA zone such as Europe/Kyiv. It panics on an unknown zone,
// every local day boundary depends on it
func (c Conf) MayLocation(key, def string) *time.Location {
	name := c.MayString(key, def)
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", c.key(key)).Str("value", name).Msg("unknown time zone")
	}
	return loc
}

// MaySecret returns KEY when set, else the contents of the file named by KEY_FILE,
// else the contents of defFile. A missing file yields ""
func (c Conf) MaySecret(key, defFile string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	path := c.MayString(key+"_FILE", defFile)
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Get().Warn().Err(err).Str("key", c.key(key+"_FILE")).Str("path", path).Msg("secret file unreadable")
		}
		return ""
	}
	return strings.TrimSpace(string(b))
}
