// Package module wires alerts and the provider webhook into the API using modkit
package module

import (
	"context"
	"net/http"

	"gridwatch/internal/adapters/ukrainealarm"
	modkit "gridwatch/internal/modkit"
	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/platform/net/middleware"
	str "gridwatch/internal/platform/strings"
	"gridwatch/internal/platform/upstream"
	alertshttp "gridwatch/internal/services/alerts/http"
	"gridwatch/internal/services/alerts/service"
	"gridwatch/internal/services/alerts/store"
)

// Module implements the modkit.Module interface for /alerts
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)

	opts Options
	svc  *service.Svc
}

// New constructs the alerts module; zero fields of overrides fall back to ALERTS_* config
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("alerts"), modkit.WithPrefix("/alerts")}, opts...)...)
	o := merge(FromConfig(deps.Cfg), overrides)

	api := o.API
	if api == nil {
		up := upstream.New(upstream.Options{Service: "ukrainealarm", BaseURL: o.BaseURL, Recorder: deps.Metrics})
		api = ukrainealarm.New(up, o.APIKey)
	}
	st := store.New(deps.Clock)
	svc := service.New(api, st, deps.Clock, service.Config{
		TTL:        o.TTL,
		Local:      o.Local,
		WebhookURL: o.webhookURL(),
	}, deps.Metrics)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		opts:   o,
		svc:    svc,
	}
	m.ports = Ports{
		Service: svc,
		Store:   st,
		Worker:  modkit.WorkerFunc(func(ctx context.Context) error { return svc.Run(ctx, o.Poll) }),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		alertshttp.Register(r, m.svc, o.Admin)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) { modkit.Mount(r, m.prefix, m.mws, m.register) }

// Ready reports whether the feed has data for /meta/ready
func (m *Module) Ready() error { return m.svc.Ready() }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// WebhookModule mounts the provider callback; it lives outside the versioned API
// because the URL is registered with the provider
type WebhookModule struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
}

// Webhook builds the webhook module over the same service and store
func (m *Module) Webhook(opts ...modkit.Option) *WebhookModule {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("webhook"), modkit.WithPrefix("/webhook")}, opts...)...)
	w := &WebhookModule{name: b.Name, prefix: b.Prefix, mws: b.Mw}

	d := alertshttp.WebhookDeps{Admin: m.opts.Admin}
	if m.opts.WebhookSecret != "" {
		d.Secret = middleware.HeaderSecret{Header: "Authorization", Secret: m.opts.WebhookSecret, Caller: "ukrainealarm"}
	}
	if m.opts.WebhookLimit.Every > 0 {
		d.Limit = httpkit.RateLimit(m.opts.WebhookLimit)
	}
	external := b.Register
	w.register = func(r httpkit.Router) {
		alertshttp.RegisterWebhook(r, m.svc, d)
		if external != nil {
			external(r)
		}
	}
	return w
}

// MountRoutes implements the modkit.Module interface
func (w *WebhookModule) MountRoutes(r httpkit.Router) {
	modkit.Mount(r, w.prefix, w.mws, w.register)
}

// Name returns the module name
func (w *WebhookModule) Name() string { return str.MustString(w.name, "module name") }

// Prefix returns the module route prefix
func (w *WebhookModule) Prefix() string { return str.MustPrefix(w.prefix) }
