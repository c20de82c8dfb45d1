package module

import (
	"time"

	"gridwatch/internal/adapters/openmeteo"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/services/weather/service"
)

// Options controls the weather module
type Options struct {
	BaseURL      string
	Latitude     float64
	Longitude    float64
	ForecastDays int
	Poll         time.Duration
	StaleAfter   time.Duration

	// Source replaces the HTTP client when set
	Source service.Source
}

// FromConfig reads with WEATHER_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WEATHER_")
	return Options{
		BaseURL:      c.MayURL("BASE_URL", openmeteo.DefaultBaseURL),
		Latitude:     c.MayFloat64("LATITUDE", 50.4014),
		Longitude:    c.MayFloat64("LONGITUDE", 30.3706),
		ForecastDays: c.MayInt("FORECAST_DAYS", 4),
		Poll:         c.MayDuration("POLL", 10*time.Minute),
		StaleAfter:   c.MayDuration("STALE_AFTER", 30*time.Minute),
	}
}

func merge(opts, o Options) Options {
	if o.BaseURL != "" {
		opts.BaseURL = o.BaseURL
	}
	if o.Latitude != 0 || o.Longitude != 0 {
		opts.Latitude, opts.Longitude = o.Latitude, o.Longitude
	}
	if o.ForecastDays != 0 {
		opts.ForecastDays = o.ForecastDays
	}
	if o.Poll != 0 {
		opts.Poll = o.Poll
	}
	if o.StaleAfter != 0 {
		opts.StaleAfter = o.StaleAfter
	}
	if o.Source != nil {
		opts.Source = o.Source
	}
	return opts
}
