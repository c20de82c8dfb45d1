// Package http provides http transport for air-raid alerts and the provider webhook
package http

import (
	stdhttp "net/http"

	"gridwatch/internal/adapters/ukrainealarm"
	"gridwatch/internal/core/alertmap"
	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/modkit/scope"
	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/net/middleware"
	svc "gridwatch/internal/services/alerts/service"
)

// Register mounts the alert views; admin guards the refresh route and may be nil
func Register(r httpkit.Router, s svc.Service, admin middleware.SecretPort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.overview)
	httpkit.Get(r, "/local", h.local)
	httpkit.Get(r, "/map", h.regionMap)
	httpkit.PostJSON(r, "/map", h.foldMap)
	httpkit.Protected(r, admin, func(pr httpkit.Router) {
		httpkit.Post(pr, "/refresh", h.refresh)
	})
}

// WebhookDeps are the webhook route dependencies
type WebhookDeps struct {
	// Secret checks the provider's Authorization header
	Secret middleware.SecretPort
	// Admin guards POST /register; nil leaves it open
	Admin middleware.SecretPort
	// Limit throttles deliveries per client address; nil disables it
	Limit func(stdhttp.Handler) stdhttp.Handler
}

// RegisterWebhook mounts the provider callback and the registration helper
func RegisterWebhook(r httpkit.Router, s svc.Service, d WebhookDeps) {
	h := &handlers{svc: s, secret: d.Secret}
	r.Group(func(gr httpkit.Router) {
		if d.Limit != nil {
			gr.Use(d.Limit)
		}
		httpkit.Post(gr, "/alerts", h.receive)
	})
	httpkit.Get(r, "/alerts", h.webhookStatus)
	httpkit.Get(r, "/register", h.registerStatus)
	httpkit.Protected(r, d.Admin, func(pr httpkit.Router) {
		httpkit.Post(pr, "/register", h.register)
	})
}

type handlers struct {
	svc    svc.Service
	secret middleware.SecretPort
}

// swagger:route GET /v1/alerts Alerts alertsOverview
// @Summary Alert state of every oblast
// @Tags Alerts
// @Produce json
// @Success 200 {object} domain.Overview "ok; ok=false with error when the key is missing or the provider failed"
// @Router /v1/alerts [get]
func (h *handlers) overview(r *stdhttp.Request) (any, error) {
	return h.svc.Overview(r.Context()), nil
}

// swagger:route GET /v1/alerts/local Alerts alertsLocal
// @Summary Configured local regions
// @Tags Alerts
// @Produce json
// @Success 200 {object} domain.Local "ok"
// @Router /v1/alerts/local [get]
func (h *handlers) local(r *stdhttp.Request) (any, error) {
	return h.svc.Local(r.Context()), nil
}

// swagger:route GET /v1/alerts/map Alerts alertsMap
// @Summary The 25 map regions with alert flags
// @Tags Alerts
// @Produce json
// @Success 200 {object} domain.Map "ok"
// @Router /v1/alerts/map [get]
func (h *handlers) regionMap(r *stdhttp.Request) (any, error) {
	return h.svc.Map(r.Context()), nil
}

// swagger:route POST /v1/alerts/map Alerts alertsFoldMap
// @Summary Fold supplied alert records into the 25 map regions
// @Description Records are a bare list or an object with an "alerts" list.
// @Description A record is active by its activeAlert flag, else by finished_at being null, else by an AIR_RAID type.
// @Tags Alerts
// @Accept json
// @Produce json
// @Success 200 {object} domain.Map "ok"
// @Failure 400 {object} httpkit.Envelope "not a list of records"
// @Router /v1/alerts/map [post]
func (h *handlers) foldMap(_ *stdhttp.Request, in alertmap.Records) (any, error) {
	return h.svc.MapOf(in.Alerts), nil
}

// swagger:route POST /v1/alerts/refresh Alerts alertsRefresh
// @Summary Poll the provider now
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Overview "ok"
// @Failure 503 {object} httpkit.Envelope "API key not configured"
// @Router /v1/alerts/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	ctx := scope.WithTrigger(r.Context(), scope.Manual)
	if err := h.svc.Refresh(ctx); err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotConfigured) {
			return nil, err
		}
		return httpkit.Degraded(h.svc.Overview(ctx), err), nil
	}
	return h.svc.Overview(ctx), nil
}

// swagger:route POST /webhook/alerts Webhook webhookReceive
// @Summary Region change delivered by the alert provider
// @Tags Webhook
// @Accept json
// @Produce json
// @Param Authorization header string false "webhook secret when configured"
// @Param payload body ukrainealarm.Region true "Region state"
// @Success 200 {object} domain.Received "ok"
// @Failure 400 {object} httpkit.Envelope "regionId or regionName missing"
// @Failure 401 {object} httpkit.Envelope "wrong secret"
// @Failure 429 {object} httpkit.Envelope "too many deliveries"
// @Router /webhook/alerts [post]
func (h *handlers) receive(r *stdhttp.Request) (any, error) {
	if h.secret != nil {
		if _, err := h.secret.Verify(r); err != nil {
			h.svc.Webhook("rejected")
			return nil, err
		}
	}
	in, err := httpkit.Bind[ukrainealarm.Region](r)
	if err != nil {
		h.svc.Webhook("invalid")
		return nil, err
	}
	h.svc.Webhook("ok")
	return h.svc.Receive(scope.WithTrigger(r.Context(), scope.Webhook), in), nil
}

// swagger:route GET /webhook/alerts Webhook webhookStatus
// @Summary Webhook liveness
// @Tags Webhook
// @Produce json
// @Success 200 {object} domain.WebhookStatus "ok"
// @Router /webhook/alerts [get]
func (h *handlers) webhookStatus(_ *stdhttp.Request) (any, error) {
	return h.svc.WebhookStatus(), nil
}

// swagger:route POST /webhook/register Webhook webhookRegister
// @Summary Register this server's webhook with the provider
// @Tags Webhook
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Registration "ok"
// @Failure 503 {object} httpkit.Envelope "key or URL not configured"
// @Failure 502 {object} httpkit.Envelope "provider refused"
// @Router /webhook/register [post]
func (h *handlers) register(r *stdhttp.Request) (any, error) {
	return h.svc.Register(r.Context())
}

// swagger:route GET /webhook/register Webhook webhookRegisterStatus
// @Summary What a registration would use
// @Tags Webhook
// @Produce json
// @Success 200 {object} domain.RegisterStatus "ok"
// @Router /webhook/register [get]
func (h *handlers) registerStatus(_ *stdhttp.Request) (any, error) {
	return h.svc.RegisterStatus(), nil
}
