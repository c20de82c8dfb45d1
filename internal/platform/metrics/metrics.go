// Package metrics owns the Prometheus registry of the process
// A nil *Metrics is valid and records nothing, which keeps tests and tools free of wiring
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gridwatch"

// Metrics groups every collector the service exports
type Metrics struct {
	reg *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	feedRefreshes    *prometheus.CounterVec
	feedLastSuccess  *prometheus.GaugeVec
	notifications    *prometheus.CounterVec
	webhooks         *prometheus.CounterVec
}

// New builds a private registry with go and process collectors
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound requests by service and outcome.",
		}, []string{"service", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound request latency including retries.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"service"}),
		feedRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_refreshes_total",
			Help:      "Feed cache refresh attempts by feed and result.",
		}, []string{"feed", "result"}),
		feedLastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh per feed.",
		}, []string{"feed"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Push notifications by type and result.",
		}, []string{"type", "result"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_webhooks_total",
			Help:      "Alert webhook deliveries by result.",
		}, []string{"result"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.upstreamRequests,
		m.upstreamDuration,
		m.feedRefreshes,
		m.feedLastSuccess,
		m.notifications,
		m.webhooks,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Refreshed records a feed refresh; it satisfies cache.Observer
func (m *Metrics) Refreshed(feed string, err error, at time.Time) {
	if m == nil {
		return
	}
	if err != nil {
		m.feedRefreshes.WithLabelValues(feed, "error").Inc()
		return
	}
	m.feedRefreshes.WithLabelValues(feed, "ok").Inc()
	m.feedLastSuccess.WithLabelValues(feed).Set(float64(at.Unix()))
}

// Upstream records one logical outbound call. status is 0 on transport failure
func (m *Metrics) Upstream(service string, status int, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(service, Outcome(status, err)).Inc()
	m.upstreamDuration.WithLabelValues(service).Observe(took.Seconds())
}

// Notified records a push notification attempt
func (m *Metrics) Notified(kind string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result(err)).Inc()
}

// Webhook records an alert webhook delivery; result is ok, rejected or invalid
func (m *Metrics) Webhook(res string) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(res).Inc()
}

// Middleware counts requests per chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Outcome buckets an upstream result into a low-cardinality label
func Outcome(status int, err error) string {
	switch {
	case status == 0 && err != nil:
		return "transport_error"
	case status >= 200 && status < 300 && err == nil:
		return "ok"
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case err != nil:
		return "error"
	default:
		return "other"
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
