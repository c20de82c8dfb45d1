// Package http provides http transport for push notifications
package http

import (
	stdhttp "net/http"

	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/platform/net/middleware"
	"gridwatch/internal/services/notify/domain"
	svc "gridwatch/internal/services/notify/service"
)

// Deps are the push route dependencies
type Deps struct {
	// Admin guards send and test; nil leaves them open
	Admin middleware.SecretPort
	// Limit throttles the write routes per client address; nil disables it
	Limit func(stdhttp.Handler) stdhttp.Handler
}

// Register mounts push endpoints
func Register(r httpkit.Router, s svc.Service, d Deps) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/config", h.config)
	r.Group(func(gr httpkit.Router) {
		if d.Limit != nil {
			gr.Use(d.Limit)
		}
		httpkit.PostJSON(gr, "/subscribe", h.subscribe)
		httpkit.Protected(gr, d.Admin, func(pr httpkit.Router) {
			httpkit.PostJSON(pr, "/send", h.send)
			httpkit.Post(pr, "/test", h.test)
		})
	})
}

type handlers struct{ svc svc.Service }

// swagger:route POST /v1/push/send Push pushSend
// @Summary Broadcast a notification to the region's subscribers
// @Tags Push
// @Accept json
// @Produce json
// @Param payload body domain.SendRequest true "Notification"
// @Success 200 {object} domain.Sent "ok"
// @Failure 400 {object} httpkit.Envelope "missing field or unknown type"
// @Failure 429 {object} httpkit.Envelope "too many requests"
// @Failure 502 {object} httpkit.Envelope "relay failed"
// @Router /v1/push/send [post]
func (h *handlers) send(r *stdhttp.Request, in domain.SendRequest) (any, error) {
	return h.svc.Send(r.Context(), in)
}

// swagger:route POST /v1/push/test Push pushTest
// @Summary Send a test notification
// @Tags Push
// @Produce json
// @Success 200 {object} domain.TestSent "ok"
// @Failure 502 {object} httpkit.Envelope "relay failed"
// @Router /v1/push/test [post]
func (h *handlers) test(r *stdhttp.Request) (any, error) {
	return h.svc.Test(r.Context())
}

// swagger:route POST /v1/push/subscribe Push pushSubscribe
// @Summary Register a browser push subscription
// @Tags Push
// @Accept json
// @Produce json
// @Param payload body domain.SubscribeRequest true "PushSubscription and region"
// @Success 200 {object} domain.Subscribed "ok"
// @Failure 400 {object} httpkit.Envelope "invalid subscription"
// @Failure 502 {object} httpkit.Envelope "relay failed"
// @Router /v1/push/subscribe [post]
func (h *handlers) subscribe(r *stdhttp.Request, in domain.SubscribeRequest) (any, error) {
	return h.svc.Subscribe(r.Context(), in)
}

// swagger:route GET /v1/push/config Push pushConfig
// @Summary VAPID key and notification kinds
// @Tags Push
// @Produce json
// @Success 200 {object} domain.Config "ok"
// @Router /v1/push/config [get]
func (h *handlers) config(r *stdhttp.Request) (any, error) {
	return h.svc.Config(r.Context()), nil
}
