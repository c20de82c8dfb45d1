// Package module wires the weather forecast into the API using modkit
package module

import (
	"context"
	"net/http"

	"gridwatch/internal/adapters/openmeteo"
	modkit "gridwatch/internal/modkit"
	"gridwatch/internal/modkit/httpkit"
	str "gridwatch/internal/platform/strings"
	"gridwatch/internal/platform/upstream"
	weatherhttp "gridwatch/internal/services/weather/http"
	"gridwatch/internal/services/weather/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)

	svc *service.Svc
}

// New constructs the weather module; zero fields of overrides fall back to WEATHER_* config
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("weather"), modkit.WithPrefix("/weather")}, opts...)...)
	o := merge(FromConfig(deps.Cfg), overrides)

	src := o.Source
	if src == nil {
		up := upstream.New(upstream.Options{Service: "openmeteo", BaseURL: o.BaseURL, Recorder: deps.Metrics})
		src = openmeteo.New(up, openmeteo.Options{
			Latitude:     o.Latitude,
			Longitude:    o.Longitude,
			Timezone:     deps.Location().String(),
			ForecastDays: o.ForecastDays,
		})
	}
	svc := service.New(src, deps.Clock, deps.Location(), service.Config{
		Latitude:   o.Latitude,
		Longitude:  o.Longitude,
		StaleAfter: o.StaleAfter,
	}, deps.Metrics)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{
		Service: svc,
		Worker:  modkit.WorkerFunc(func(ctx context.Context) error { return svc.Run(ctx, o.Poll) }),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		weatherhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, m.prefix, m.mws, m.register)
}

// Ready reports whether the feed has data for /meta/ready
func (m *Module) Ready() error { return m.svc.Ready() }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
