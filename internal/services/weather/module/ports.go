package module

import (
	"gridwatch/internal/modkit"
	"gridwatch/internal/services/weather/service"
)

// Ports holds what the weather module exposes
type Ports struct {
	Service service.Service
	Worker  modkit.Worker
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
