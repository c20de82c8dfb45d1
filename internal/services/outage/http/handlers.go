// Package http provides http transport for the outage schedule
package http

import (
	stdhttp "net/http"

	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/modkit/scope"
	"gridwatch/internal/platform/net/middleware"
	svc "gridwatch/internal/services/outage/service"
)

// Register mounts outage endpoints; admin guards the refresh route and may be nil
func Register(r httpkit.Router, s svc.Service, admin middleware.SecretPort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.overview)
	httpkit.Get(r, "/groups", h.groups)
	httpkit.Get(r, "/days/{day}", h.day)
	httpkit.Protected(r, admin, func(pr httpkit.Router) {
		httpkit.Post(pr, "/refresh", h.refresh)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route GET /v1/outage Outage outageOverview
// @Summary Today and tomorrow for the configured group with the live countdown
// @Tags Outage
// @Produce json
// @Success 200 {object} domain.Overview "ok"
// @Router /v1/outage [get]
func (h *handlers) overview(r *stdhttp.Request) (any, error) {
	return h.svc.Overview(r.Context()), nil
}

// swagger:route GET /v1/outage/days/{day} Outage outageDay
// @Summary One day for any group
// @Tags Outage
// @Produce json
// @Param day path string true "today, tomorrow or YYYY-MM-DD"
// @Param group query string false "group such as 5.2 or GPV5.2"
// @Success 200 {object} domain.Day "ok"
// @Failure 400 {object} httpkit.Envelope "bad day or group"
// @Failure 503 {object} httpkit.Envelope "feed never loaded"
// @Router /v1/outage/days/{day} [get]
func (h *handlers) day(r *stdhttp.Request) (any, error) {
	group := httpkit.Query(r, "group", "")
	if group != "" {
		if err := httpkit.Var("group", group, "group_key"); err != nil {
			return nil, err
		}
	}
	return h.svc.Day(r.Context(), httpkit.Param(r, "day"), group)
}

// swagger:route GET /v1/outage/groups Outage outageGroups
// @Summary Groups published for today
// @Tags Outage
// @Produce json
// @Success 200 {object} domain.Groups "ok"
// @Router /v1/outage/groups [get]
func (h *handlers) groups(r *stdhttp.Request) (any, error) {
	return h.svc.Groups(r.Context()), nil
}

// swagger:route POST /v1/outage/refresh Outage outageRefresh
// @Summary Fetch the feed now
// @Tags Outage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Overview "ok, error set when the fetch failed"
// @Failure 401 {object} httpkit.Envelope "missing or wrong admin token"
// @Router /v1/outage/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	ctx := scope.WithTrigger(r.Context(), scope.Manual)
	err := h.svc.Refresh(ctx)
	ov := h.svc.Overview(ctx)
	if err != nil {
		return httpkit.Degraded(ov, err), nil
	}
	return ov, nil
}
