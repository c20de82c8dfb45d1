// Package http provides http transport for the weather forecast
package http

import (
	stdhttp "net/http"

	"gridwatch/internal/modkit/httpkit"
	svc "gridwatch/internal/services/weather/service"
)

// Register mounts weather endpoints
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.weather)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /v1/weather Weather weatherForecast
// @Summary Current temperature and the daily outlook
// @Tags Weather
// @Produce json
// @Success 200 {object} domain.Weather "ok"
// @Failure 503 {object} httpkit.Envelope "forecast never loaded"
// @Router /v1/weather [get]
func (h *handlers) weather(r *stdhttp.Request) (any, error) {
	return h.svc.Weather(r.Context())
}
