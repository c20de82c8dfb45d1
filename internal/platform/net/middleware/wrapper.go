// Package middleware holds the HTTP middleware the API stack is assembled from.
// Callers get plain func(http.Handler) http.Handler values, chi stays an implementation detail
package middleware

import (
	"net/http"
	"time"

	pstrings "gridwatch/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID reuses an inbound X-Request-Id or mints one
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP trusts X-Forwarded-For / X-Real-IP, the API runs behind a proxy
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache marks responses uncacheable; outage and alert state can flip between two polls
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Compress gzip/deflate encodes JSON and HTML bodies at the given flate level
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level, "application/json", "text/html", "text/plain").Handler
}

// CORSOptions is the subset of go-chi/cors the dashboard needs
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS defaults to read plus webhook methods and the headers our clients send
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.Or(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders: pstrings.Or(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"}),
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         o.MaxAge,
	})
}
