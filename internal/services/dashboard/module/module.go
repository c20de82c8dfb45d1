// Package module wires the HTML dashboard into the root router using modkit
package module

import (
	"net/http"

	modkit "gridwatch/internal/modkit"
	"gridwatch/internal/modkit/httpkit"
	str "gridwatch/internal/platform/strings"
	dashhttp "gridwatch/internal/services/dashboard/http"
)

// Sources are the feeds the page renders
type Sources struct {
	Outage   dashhttp.Outage
	Weather  dashhttp.Weather
	Alerts   dashhttp.Alerts
	Inverter dashhttp.Inverter
}

// Module implements the modkit.Module interface; it owns "/" only
type Module struct {
	name string
	mws  []func(http.Handler) http.Handler

	register func(httpkit.Router)
}

// New constructs the dashboard module; DASHBOARD_REFRESH sets the reload interval in seconds
func New(deps modkit.Deps, src Sources, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("dashboard")}, opts...)...)
	c := deps.Cfg.Prefix("DASHBOARD_")

	d := dashhttp.Deps{
		Outage:   src.Outage,
		Weather:  src.Weather,
		Alerts:   src.Alerts,
		Inverter: src.Inverter,
		Clock:    deps.Clock,
		Loc:      deps.Location(),
		Refresh:  c.MayInt("REFRESH", 60),
		Timeout:  c.MayDuration("TIMEOUT", 0),
	}
	m := &Module{name: b.Name, mws: b.Mw}
	external := b.Register
	m.register = func(r httpkit.Router) {
		dashhttp.Register(r, d)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Group(func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports returns nil; the page exposes nothing
func (m *Module) Ports() any { return nil }
