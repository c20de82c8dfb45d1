// Package service caches the forecast and renders it for the dashboard
package service

import (
	"context"
	"math"
	"time"

	"gridwatch/internal/adapters/openmeteo"
	"gridwatch/internal/core/calendar"
	"gridwatch/internal/modkit/scope"
	"gridwatch/internal/platform/cache"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
	"gridwatch/internal/services/weather/domain"
)

// Source is the forecast provider
type Source interface {
	Forecast(ctx context.Context) (openmeteo.Forecast, error)
}

// Config holds the location echoed in views and the staleness threshold
type Config struct {
	Latitude   float64
	Longitude  float64
	StaleAfter time.Duration
}

// Service is the contract the transport uses
type Service interface {
	Refresh(ctx context.Context) error
	Weather(ctx context.Context) (domain.Weather, error)
}

// Svc implements Service
type Svc struct {
	src   Source
	cache *cache.Cache[openmeteo.Forecast]
	clk   clock.Clock
	loc   *time.Location
	cfg   Config
}

// New wires a service; obs may be nil
func New(src Source, clk clock.Clock, loc *time.Location, cfg Config, obs cache.Observer) *Svc {
	if src == nil {
		panic("weather.Service requires a non nil Source")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 30 * time.Minute
	}
	return &Svc{
		src:   src,
		cache: cache.New[openmeteo.Forecast]("weather", clk, cfg.StaleAfter, obs),
		clk:   clk,
		loc:   loc,
		cfg:   cfg,
	}
}

// Refresh fetches the forecast; a failure keeps the previous one
func (s *Svc) Refresh(ctx context.Context) error {
	ctx = logger.WithFeed(ctx, "weather")
	trigger := scope.Trigger(ctx)
	if _, err := s.cache.Refresh(ctx, s.src.Forecast); err != nil {
		logger.C(ctx).Warn().Err(err).Str("trigger", trigger).Bool("retryable", perr.Retryable(err)).Msg("weather refresh failed")
		return err
	}
	logger.C(ctx).Debug().Str("trigger", trigger).Msg("weather refreshed")
	return nil
}

// Run refreshes immediately, then every interval until ctx is done
func (s *Svc) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = 10 * time.Minute
	}
	ctx = scope.WithTrigger(ctx, scope.Poll)
	_ = s.Refresh(ctx)

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_ = s.Refresh(ctx)
		}
	}
}

// round matches half-up rounding of the dashboard, -2.5 becomes -2
func round(v float64) int { return int(math.Floor(v + 0.5)) }

// Weather renders the cached forecast; it fails only when nothing was ever loaded
func (s *Svc) Weather(ctx context.Context) (domain.Weather, error) {
	snap := s.cache.Snapshot()
	if !snap.OK && snap.AttemptedAt.IsZero() {
		_ = s.Refresh(ctx)
		snap = s.cache.Snapshot()
	}
	if !snap.OK {
		return domain.Weather{}, perr.Unavailablef("%s", domain.MsgLoadFailed)
	}

	f := snap.Value
	out := domain.Weather{
		Latitude:  s.cfg.Latitude,
		Longitude: s.cfg.Longitude,
		Current: domain.Current{
			Time:        f.Current.Time,
			Temperature: round(f.Current.Temperature),
			WeatherCode: f.Current.WeatherCode,
			Description: domain.Describe(f.Current.WeatherCode),
			Icon:        domain.Icon(f.Current.WeatherCode),
		},
		Daily:     make([]domain.Day, 0, len(f.Daily.Time)),
		FetchedAt: clock.Ptr(snap.FetchedAt),
		Stale:     snap.Stale,
	}
	for i, date := range f.Daily.Time {
		d := domain.Day{
			Date:        date,
			WeatherCode: f.Daily.WeatherCode[i],
			Description: domain.Describe(f.Daily.WeatherCode[i]),
			Icon:        domain.Icon(f.Daily.WeatherCode[i]),
			Max:         round(f.Daily.TempMax[i]),
			Min:         round(f.Daily.TempMin[i]),
		}
		if t, err := time.ParseInLocation(time.DateOnly, date, s.loc); err == nil {
			d.Weekday = calendar.WeekdayShort(t.Weekday())
			d.Label = calendar.Label(t)
		}
		out.Daily = append(out.Daily, d)
	}
	if snap.Err != nil {
		out.Error = domain.MsgCached
	}
	return out, nil
}

// Ready is nil once the feed has been loaded
func (s *Svc) Ready() error { return s.cache.Ready() }
