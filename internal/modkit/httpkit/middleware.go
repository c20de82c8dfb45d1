package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"gridwatch/internal/platform/metrics"
	phttp "gridwatch/internal/platform/net/http"
	"gridwatch/internal/platform/net/middleware"
)

// StackOptions tunes the baseline stack; the zero value is usable
type StackOptions struct {
	// Origins allowed by CORS, empty means the browser default (same origin only)
	Origins []string
	// Timeout for a whole request, 30s when zero
	Timeout time.Duration
	// Slow marks access log lines above this latency as warnings
	Slow    time.Duration
	Metrics *metrics.Metrics
}

// probes and scrapes would drown the info level
var quiet = []string{"/metrics", "/api/v1/meta/health", "/api/v1/meta/ready"}

// CommonStack returns a baseline per scope middleware slice
// compose with Auth or RateLimit per module as needed
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RequestContext(),

		// safety
		middleware.Recover(phttp.JSON),

		// observability
		o.Metrics.Middleware,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow, Quiet: quiet}),

		// cache / freshness, every feed changes under the client
		middleware.NoCache(),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	}
}

// Auth wires the shared secret middleware to the platform JSON writer
func Auth(p middleware.SecretPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

// RateLimit wires the per client limiter to the platform JSON writer
func RateLimit(o middleware.RateLimitOptions) func(http.Handler) http.Handler {
	return middleware.RateLimit(o, phttp.JSON)
}
