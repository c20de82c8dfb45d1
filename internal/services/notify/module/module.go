// Package module wires push notifications and the outage notifier into the API using modkit
package module

import (
	"context"
	"net/http"
	"time"

	"gridwatch/internal/adapters/pushserver"
	modkit "gridwatch/internal/modkit"
	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/platform/logger"
	str "gridwatch/internal/platform/strings"
	"gridwatch/internal/platform/upstream"
	notifyhttp "gridwatch/internal/services/notify/http"
	"gridwatch/internal/services/notify/service"
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

// New constructs the push module; zero fields of overrides fall back to PUSH_* and NOTIFY_* config
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("push"), modkit.WithPrefix("/push")}, opts...)...)
	o := merge(FromConfig(deps.Cfg), overrides)

	push := o.Pusher
	if push == nil {
		up := upstream.New(upstream.Options{Service: "push", BaseURL: o.BaseURL, Recorder: deps.Metrics})
		push = pushserver.New(up)
	}
	notifying := o.NotifyEnabled && o.Outage != nil
	svc := service.New(push, deps.Clock, deps.Location(), service.Config{
		Region:         o.Region,
		VAPIDPublicKey: o.VAPIDPublicKey,
		Notifier:       notifying,
	}, deps.Metrics)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{Service: svc}
	if notifying {
		n := service.NewNotifier(svc, service.NotifierConfig{Lead: o.NotifyLead, Label: o.GroupLabel})
		o.Outage.Subscribe(n.Listen)
		m.ports.Worker = modkit.WorkerFunc(func(ctx context.Context) error { return n.Run(ctx, time.Minute) })
	} else if o.NotifyEnabled {
		logger.Named("notify").Warn().Msg("NOTIFY_ENABLED set without an outage feed; notifier off")
	}

	d := notifyhttp.Deps{Admin: o.Admin}
	if o.Limit.Every > 0 {
		d.Limit = httpkit.RateLimit(o.Limit)
	}
	external := b.Register
	m.register = func(r httpkit.Router) {
		notifyhttp.Register(r, m.svc, d)
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

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
