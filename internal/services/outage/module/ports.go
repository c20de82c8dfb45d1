package module

import (
	"gridwatch/internal/modkit"
	"gridwatch/internal/services/outage/service"
)

// Ports holds what the outage module exposes to main and other modules
type Ports struct {
	Service service.Service
	// Worker polls the feed every OUTAGE_POLL
	Worker modkit.Worker
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
