// Package http provides http transport for inverter telemetry
package http

import (
	stdhttp "net/http"

	"gridwatch/internal/modkit/httpkit"
	svc "gridwatch/internal/services/inverter/service"
)

// Register mounts inverter endpoints
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.telemetry)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /v1/inverter Inverter inverterTelemetry
// @Summary Latest inverter sample with derived power flows
// @Tags Inverter
// @Produce json
// @Success 200 {object} domain.Telemetry "ok"
// @Failure 401 {object} httpkit.Envelope "bridge rejected the token"
// @Failure 502 {object} httpkit.Envelope "bridge failed"
// @Failure 503 {object} httpkit.Envelope "token not configured"
// @Router /v1/inverter [get]
func (h *handlers) telemetry(r *stdhttp.Request) (any, error) {
	return h.svc.Telemetry(r.Context())
}
