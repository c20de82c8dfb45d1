package modkit

import (
	"net/http"

	"gridwatch/internal/modkit/httpkit"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Register func(httpkit.Router)
}

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Register: c.register,
	}
}

// Mount scopes register under prefix with the module middleware applied first
func Mount(r httpkit.Router, prefix string, mw []func(http.Handler) http.Handler, register func(httpkit.Router)) {
	r.Route(prefix, func(rr httpkit.Router) {
		if len(mw) > 0 {
			rr.Use(mw...)
		}
		if register != nil {
			register(rr)
		}
	})
}
