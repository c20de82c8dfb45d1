// Package api provides the HTTP API for the application
package api

import (
	"time"

	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/metrics"
	phttp "gridwatch/internal/platform/net/http"

	"gridwatch/internal/modkit"
	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/modkit/module"
	"gridwatch/internal/modkit/swaggerkit"

	alertsmod "gridwatch/internal/services/alerts/module"
	metahttp "gridwatch/internal/services/api/meta/http"
	metamod "gridwatch/internal/services/api/meta/module"
	dashmod "gridwatch/internal/services/dashboard/module"
	invertermod "gridwatch/internal/services/inverter/module"
	notifymod "gridwatch/internal/services/notify/module"
	outagemod "gridwatch/internal/services/outage/module"
	weathermod "gridwatch/internal/services/weather/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Metrics        *metrics.Metrics
	Clock          clock.Clock
	Loc            *time.Location
	EnableSwagger  bool
	EnableProfiler bool
}

// Worker is a named background loop main runs next to the server
type Worker struct {
	Name string
	modkit.Worker
}

// Mount mounts every module onto the given router and returns the feed workers
func Mount(r phttp.Router, opt Options) []Worker {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Clock:   opt.Clock,
		Loc:     opt.Loc,
		Metrics: opt.Metrics,
	}

	apiCfg := opt.Config.Prefix("API_")
	admin := httpkit.StaticToken(apiCfg.MaySecret("ADMIN_TOKEN", ""), "admin")

	outage := outagemod.New(deps, outagemod.Options{Admin: admin})
	weather := weathermod.New(deps, weathermod.Options{})
	alerts := alertsmod.New(deps, alertsmod.Options{Admin: admin})
	inverter := invertermod.New(deps, invertermod.Options{})

	// the notifier listens to schedule updates through the outage port
	outagePorts := module.MustPortsOf[outagemod.Ports](outage)
	push := notifymod.New(deps, notifymod.Options{Admin: admin, Outage: outagePorts.Service})

	meta := metamod.New(deps, []metahttp.Check{
		{Name: "outage", Ready: outage.Ready},
		{Name: "weather", Ready: weather.Ready},
		{Name: "alerts", Ready: alerts.Ready},
		{Name: "inverter", Ready: inverter.Ready},
	})

	mods := []module.Module{meta, outage, weather, alerts, inverter, push}
	for _, m := range mods {
		// register each module's ports under its own name (for cross-module lookups)
		module.Register(m.Name(), m.Ports())
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		Timeout: apiCfg.MayDuration("TIMEOUT", 30*time.Second),
		Slow:    apiCfg.MayDuration("SLOW", 2*time.Second),
		Metrics: opt.Metrics,
	})

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	// the provider posts to a URL registered once, so it stays unversioned
	r.Group(func(root httpkit.Router) {
		root.Use(stack...)
		alerts.Webhook(modkit.WithPrefix("/api/webhook")).MountRoutes(root)
		dashmod.New(deps, dashboardSources()).MountRoutes(root)
	})

	r.Handle("/metrics", opt.Metrics.Handler())

	// Swagger + profiler
	swaggerkit.Mount(r, "/swagger", opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	return workers(mods)
}

// dashboardSources reads the feed services back from the registry filled above
func dashboardSources() dashmod.Sources {
	var src dashmod.Sources
	if p, ok := module.PortsAs[outagemod.Ports]("outage"); ok {
		src.Outage = p.Service
	}
	if p, ok := module.PortsAs[weathermod.Ports]("weather"); ok {
		src.Weather = p.Service
	}
	if p, ok := module.PortsAs[alertsmod.Ports]("alerts"); ok {
		src.Alerts = p.Service
	}
	if p, ok := module.PortsAs[invertermod.Ports]("inverter"); ok {
		src.Inverter = p.Service
	}
	return src
}

// workers collects every non nil Worker port in module order
func workers(mods []module.Module) []Worker {
	var out []Worker
	for _, m := range mods {
		var w modkit.Worker
		switch p := m.Ports().(type) {
		case outagemod.Ports:
			w = p.Worker
		case weathermod.Ports:
			w = p.Worker
		case alertsmod.Ports:
			w = p.Worker
		case invertermod.Ports:
			w = p.Worker
		case notifymod.Ports:
			w = p.Worker
		}
		if w != nil {
			out = append(out, Worker{Name: m.Name(), Worker: w})
		}
	}
	return out
}
