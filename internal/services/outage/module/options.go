package module

import (
	"time"

	"gridwatch/internal/adapters/outagefeed"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/net/middleware"
	"gridwatch/internal/services/outage/service"
)

// Options controls the outage module
type Options struct {
	URL        string
	Group      string
	GroupLabel string
	Poll       time.Duration
	StaleAfter time.Duration

	// Feed replaces the HTTP feed when set
	Feed service.Feed
	// Admin guards POST /refresh; nil leaves it open
	Admin middleware.SecretPort
}

// FromConfig reads with OUTAGE_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("OUTAGE_")
	return Options{
		URL:        c.MayURL("URL", outagefeed.DefaultURL),
		Group:      c.MayString("GROUP", "GPV5.2"),
		GroupLabel: c.MayString("GROUP_LABEL", "5.2"),
		Poll:       c.MayDuration("POLL", 2*time.Minute),
		StaleAfter: c.MayDuration("STALE_AFTER", 10*time.Minute),
	}
}

func merge(opts, o Options) Options {
	if o.URL != "" {
		opts.URL = o.URL
	}
	if o.Group != "" {
		opts.Group = o.Group
	}
	if o.GroupLabel != "" {
		opts.GroupLabel = o.GroupLabel
	}
	if o.Poll != 0 {
		opts.Poll = o.Poll
	}
	if o.StaleAfter != 0 {
		opts.StaleAfter = o.StaleAfter
	}
	if o.Feed != nil {
		opts.Feed = o.Feed
	}
	if o.Admin != nil {
		opts.Admin = o.Admin
	}
	return opts
}
