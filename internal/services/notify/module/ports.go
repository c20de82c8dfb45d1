package module

import (
	"gridwatch/internal/modkit"
	"gridwatch/internal/services/notify/service"
)

// Ports holds what the push module exposes
// Worker is nil unless the notifier is enabled and fed by the outage service
type Ports struct {
	Service service.Service
	Worker  modkit.Worker
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
