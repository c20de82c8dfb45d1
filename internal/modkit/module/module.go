// Package module is the contract between feed modules and the process that mounts them
package module

import (
	phttp "gridwatch/internal/platform/net/http"
)

// Module mounts its routes and exposes a port set other modules wire against.
// It lives apart from modkit so a module package can export its Ports type without an import cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
