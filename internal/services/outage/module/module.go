// Package module wires the outage schedule into the API using modkit
package module

import (
	"context"
	"net/http"

	"gridwatch/internal/adapters/outagefeed"
	modkit "gridwatch/internal/modkit"
	"gridwatch/internal/modkit/httpkit"
	str "gridwatch/internal/platform/strings"
	"gridwatch/internal/platform/upstream"
	outagehttp "gridwatch/internal/services/outage/http"
	"gridwatch/internal/services/outage/service"
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

// New constructs the outage module; zero fields of overrides fall back to OUTAGE_* config
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("outage"), modkit.WithPrefix("/outage")}, opts...)...)
	o := merge(FromConfig(deps.Cfg), overrides)

	feed := o.Feed
	if feed == nil {
		up := upstream.New(upstream.Options{Service: "outage", Recorder: deps.Metrics})
		feed = outagefeed.New(up, o.URL)
	}
	svc := service.New(feed, deps.Clock, deps.Location(), service.Config{
		Group:      o.Group,
		GroupLabel: o.GroupLabel,
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
		outagehttp.Register(r, m.svc, o.Admin)
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

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
