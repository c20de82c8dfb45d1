package module

import (
	"strings"
	"time"

	"gridwatch/internal/adapters/ukrainealarm"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/net/middleware"
	"gridwatch/internal/services/alerts/service"
)

// Options controls the alerts and webhook modules
type Options struct {
	APIKey  string
	BaseURL string
	Poll    time.Duration
	TTL     time.Duration

	WebhookSecret string
	// WebhookURL wins over PublicBaseURL + /api/webhook/alerts
	WebhookURL    string
	PublicBaseURL string
	Local         [][2]string
	// WebhookLimit throttles deliveries per client address
	WebhookLimit middleware.RateLimitOptions

	// API replaces the provider client when set
	API service.API
	// Admin guards refresh and register; nil leaves them open
	Admin middleware.SecretPort
}

var defaultLocal = [][2]string{{"31", "м. Київ"}, {"14", "Київська область"}, {"701", "Борщагівська ТГ"}}

// FromConfig reads with ALERTS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ALERTS_")
	return Options{
		APIKey:        c.MaySecret("API_KEY", ""),
		BaseURL:       c.MayURL("BASE_URL", ukrainealarm.DefaultBaseURL),
		Poll:          c.MayDuration("POLL", 30*time.Second),
		TTL:           c.MayDuration("TTL", 30*time.Second),
		WebhookSecret: c.MaySecret("WEBHOOK_SECRET", ""),
		WebhookURL:    c.MayString("WEBHOOK_URL", ""),
		PublicBaseURL: c.MayString("PUBLIC_BASE_URL", ""),
		Local:         c.MayPairs("LOCAL_REGIONS", defaultLocal),
		WebhookLimit: middleware.RateLimitOptions{
			Every:   c.MayDuration("WEBHOOK_EVERY", time.Second/10),
			Burst:   c.MayInt("WEBHOOK_BURST", 60),
			IdleTTL: 10 * time.Minute,
		},
	}
}

// webhookURL resolves where the provider should deliver
func (o Options) webhookURL() string {
	if o.WebhookURL != "" {
		return o.WebhookURL
	}
	if o.PublicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(o.PublicBaseURL, "/") + "/api/webhook/alerts"
}

func merge(opts, o Options) Options {
	if o.APIKey != "" {
		opts.APIKey = o.APIKey
	}
	if o.BaseURL != "" {
		opts.BaseURL = o.BaseURL
	}
	if o.Poll != 0 {
		opts.Poll = o.Poll
	}
	if o.TTL != 0 {
		opts.TTL = o.TTL
	}
	if o.WebhookSecret != "" {
		opts.WebhookSecret = o.WebhookSecret
	}
	if o.WebhookURL != "" {
		opts.WebhookURL = o.WebhookURL
	}
	if o.PublicBaseURL != "" {
		opts.PublicBaseURL = o.PublicBaseURL
	}
	if len(o.Local) > 0 {
		opts.Local = o.Local
	}
	if o.WebhookLimit.Every != 0 {
		opts.WebhookLimit = o.WebhookLimit
	}
	if o.API != nil {
		opts.API = o.API
	}
	if o.Admin != nil {
		opts.Admin = o.Admin
	}
	return opts
}
