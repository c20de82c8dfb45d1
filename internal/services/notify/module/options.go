package module

import (
	"time"

	"gridwatch/internal/adapters/pushserver"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/net/middleware"
	"gridwatch/internal/services/notify/service"
	odomain "gridwatch/internal/services/outage/domain"
)

// Outage is what the notifier subscribes to
type Outage interface {
	Subscribe(fn odomain.Listener)
}

// Options controls the push module and the outage notifier
type Options struct {
	BaseURL        string
	Region         string
	VAPIDPublicKey string
	// Limit throttles send, test and subscribe per client address
	Limit middleware.RateLimitOptions

	NotifyEnabled bool
	// NotifyLead is how early an upcoming outage is announced
	NotifyLead time.Duration
	// GroupLabel names the group in notification text
	GroupLabel string

	// Pusher replaces the relay client when set
	Pusher service.Pusher
	// Outage feeds the notifier; the notifier stays off without it
	Outage Outage
	// Admin guards send and test; nil leaves them open
	Admin middleware.SecretPort
}

// FromConfig reads with PUSH_ and NOTIFY_ prefixes
func FromConfig(cfg config.Conf) Options {
	p := cfg.Prefix("PUSH_")
	n := cfg.Prefix("NOTIFY_")
	return Options{
		BaseURL:        p.MayURL("BASE_URL", pushserver.DefaultBaseURL),
		Region:         p.MayString("REGION", "kyiv"),
		VAPIDPublicKey: p.MayString("VAPID_PUBLIC_KEY", ""),
		Limit: middleware.RateLimitOptions{
			Every:   p.MayDuration("EVERY", 6*time.Second),
			Burst:   p.MayInt("BURST", 10),
			IdleTTL: 10 * time.Minute,
		},
		NotifyEnabled: n.MayBool("ENABLED", false),
		NotifyLead:    n.MayDuration("LEAD", 30*time.Minute),
		GroupLabel:    cfg.Prefix("OUTAGE_").MayString("GROUP_LABEL", "5.2"),
	}
}

func merge(opts, o Options) Options {
	if o.BaseURL != "" {
		opts.BaseURL = o.BaseURL
	}
	if o.Region != "" {
		opts.Region = o.Region
	}
	if o.VAPIDPublicKey != "" {
		opts.VAPIDPublicKey = o.VAPIDPublicKey
	}
	if o.Limit.Every != 0 {
		opts.Limit = o.Limit
	}
	if o.NotifyEnabled {
		opts.NotifyEnabled = true
	}
	if o.NotifyLead != 0 {
		opts.NotifyLead = o.NotifyLead
	}
	if o.GroupLabel != "" {
		opts.GroupLabel = o.GroupLabel
	}
	if o.Pusher != nil {
		opts.Pusher = o.Pusher
	}
	if o.Outage != nil {
		opts.Outage = o.Outage
	}
	if o.Admin != nil {
		opts.Admin = o.Admin
	}
	return opts
}
