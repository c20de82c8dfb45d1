package module

import (
	"gridwatch/internal/modkit"
	"gridwatch/internal/services/alerts/service"
	"gridwatch/internal/services/alerts/store"
)

// Ports holds what the alerts module exposes
type Ports struct {
	Service service.Service
	Store   *store.Store
	// Worker polls the provider when webhooks go quiet
	Worker modkit.Worker
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Ports returns nil; the webhook shares the alerts ports
func (w *WebhookModule) Ports() any { return nil }
