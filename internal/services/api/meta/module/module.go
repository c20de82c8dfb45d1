// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"

	"gridwatch/internal/core/version"
	modkit "gridwatch/internal/modkit"
	"gridwatch/internal/modkit/httpkit"
	str "gridwatch/internal/platform/strings"

	metahttp "gridwatch/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
}

// New constructs a meta module; checks feed /ready in order
func New(deps modkit.Deps, checks []metahttp.Check, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}

	startedAt := deps.Now()
	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   startedAt,
			Clock:       deps.Clock,
			Checks:      checks,
		})
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

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
