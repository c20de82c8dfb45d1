package middleware

import (
	"net/http"
	"slices"
	"time"

	"gridwatch/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLogOptions tunes the per request log line
type AccessLogOptions struct {
	// Slow promotes lines at or above this latency to warn, zero disables it
	Slow time.Duration
	// Quiet paths (probes, scrapes) log at debug
	Quiet []string
	// Log overrides the request scoped logger, tests use it to capture lines
	Log *logger.Logger
}

// AccessLog writes one "request done" line per request once the handler returns
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			took := time.Since(start)

			log := opt.Log
			if log == nil {
				log = logger.C(r.Context())
			}
			log.WithLevel(opt.level(r.URL.Path, status, took)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", took).
				Msg("request done")
		})
	}
}

func (o AccessLogOptions) level(path string, status int, took time.Duration) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case o.Slow > 0 && took >= o.Slow:
		return zerolog.WarnLevel
	case slices.Contains(o.Quiet, path):
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
