// Package http serves the server-rendered dashboard
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
	adomain "gridwatch/internal/services/alerts/domain"
	"gridwatch/internal/services/dashboard/view"
	idomain "gridwatch/internal/services/inverter/domain"
	odomain "gridwatch/internal/services/outage/domain"
	wdomain "gridwatch/internal/services/weather/domain"
)

// Outage is the schedule source
type Outage interface {
	Overview(ctx context.Context) odomain.Overview
}

// Weather is the forecast source
type Weather interface {
	Weather(ctx context.Context) (wdomain.Weather, error)
}

// Alerts is the local alert source
type Alerts interface {
	Local(ctx context.Context) adomain.Local
}

// Inverter is the telemetry source
type Inverter interface {
	Telemetry(ctx context.Context) (idomain.Telemetry, error)
}

// Deps are the page sources; a nil source renders as unavailable
type Deps struct {
	Outage   Outage
	Weather  Weather
	Alerts   Alerts
	Inverter Inverter

	Clock clock.Clock
	Loc   *time.Location
	// Refresh is the page reload interval in seconds
	Refresh int
	// Timeout bounds the time spent collecting sources
	Timeout time.Duration
}

// Register mounts the page at "/"
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Timeout <= 0 {
		d.Timeout = 5 * time.Second
	}
	h := &handlers{deps: d}
	r.Get("/", h.page)
}

type handlers struct{ deps Deps }

func (h *handlers) page(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	b := h.collect(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.Page(b).Render(w); err != nil {
		logger.C(r.Context()).Warn().Err(err).Msg("dashboard render failed")
	}
}

// collect queries every source in parallel; failures become page notices
func (h *handlers) collect(ctx context.Context) view.Board {
	ctx, cancel := context.WithTimeout(ctx, h.deps.Timeout)
	defer cancel()

	b := view.Board{Now: h.deps.Clock.Now(), Loc: h.deps.Loc, Refresh: h.deps.Refresh}
	var g errgroup.Group
	if src := h.deps.Outage; src != nil {
		g.Go(func() error {
			o := src.Overview(ctx)
			b.Outage = &o
			return nil
		})
	}
	if src := h.deps.Weather; src != nil {
		g.Go(func() error {
			wx, err := src.Weather(ctx)
			if err != nil {
				b.WeatherErr = perr.WireFrom(err).Message
				return nil
			}
			b.Weather = &wx
			return nil
		})
	}
	if src := h.deps.Alerts; src != nil {
		g.Go(func() error {
			l := src.Local(ctx)
			b.Alerts = &l
			return nil
		})
	}
	if src := h.deps.Inverter; src != nil {
		g.Go(func() error {
			t, err := src.Telemetry(ctx)
			if err != nil {
				b.InverterErr = perr.WireFrom(err).Message
				return nil
			}
			b.Inverter = &t
			return nil
		})
	}
	_ = g.Wait()
	return b
}
