package module

import (
	"time"

	"gridwatch/internal/adapters/inverterapi"
	"gridwatch/internal/core/inverter"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/services/inverter/service"
)

// Options controls the inverter module
type Options struct {
	BaseURL    string
	Token      string
	Poll       time.Duration
	StaleAfter time.Duration
	BatteryWh  float64

	// Source replaces the HTTP client when set
	Source service.Source
}

// FromConfig reads with INVERTER_ prefix. The token falls back to token-inverter.txt
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("INVERTER_")
	return Options{
		BaseURL:    c.MayURL("BASE_URL", inverterapi.DefaultBaseURL),
		Token:      c.MaySecret("API_TOKEN", "token-inverter.txt"),
		Poll:       c.MayDuration("POLL", 15*time.Second),
		StaleAfter: c.MayDuration("STALE_AFTER", 2*time.Minute),
		BatteryWh:  c.MayFloat64("BATTERY_WH", inverter.DefaultBatteryWh),
	}
}

func merge(opts, o Options) Options {
	if o.BaseURL != "" {
		opts.BaseURL = o.BaseURL
	}
	if o.Token != "" {
		opts.Token = o.Token
	}
	if o.Poll != 0 {
		opts.Poll = o.Poll
	}
	if o.StaleAfter != 0 {
		opts.StaleAfter = o.StaleAfter
	}
	if o.BatteryWh != 0 {
		opts.BatteryWh = o.BatteryWh
	}
	if o.Source != nil {
		opts.Source = o.Source
	}
	return opts
}
