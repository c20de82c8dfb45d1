// Package http serves liveness, readiness and build info
package http

import (
	"net/http"
	"time"

	"gridwatch/internal/core/version"
	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
)

// Check probes one feed. Ready returns nil once the feed holds data and
// a not_configured error when the feed is switched off
type Check struct {
	Name  string
	Ready func() error
}

type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Clock       clock.Clock
	Checks      []Check
}

// Health is the liveness payload
type Health struct {
	Service string `json:"service" example:"gridwatch-api"`
	Started string `json:"started" example:"2026-10-16T06:00:00Z"`
	Uptime  int64  `json:"uptimeSec" example:"300"`
	Now     string `json:"now" example:"2026-10-16T06:05:00Z"`
}

// FeedState is one line of the readiness report; State is ok, skipped or fail
type FeedState struct {
	Feed  string `json:"feed" example:"outage"`
	State string `json:"state" example:"ok"`
	Error string `json:"error,omitempty" example:"outage: no data yet"`
}

// Readiness rolls the feed states up: ok, degraded (some failing) or fail (none ready)
type Readiness struct {
	Status string      `json:"status" example:"ok"`
	Feeds  []FeedState `json:"feeds"`
}

// Register mounts /health, /ready and /version
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = clock.System{}
	}

	// @Summary Liveness and uptime
	// @Tags Meta
	// @Produce json
	// @Success 200 {object} Health
	// @Router /v1/meta/health [get]
	httpkit.Get(r, "/health", func(*http.Request) (any, error) {
		now := d.Clock.Now()
		return Health{
			Service: d.ServiceName,
			Started: d.StartedAt.UTC().Format(time.RFC3339),
			Uptime:  int64(now.Sub(d.StartedAt) / time.Second),
			Now:     now.UTC().Format(time.RFC3339),
		}, nil
	})

	// @Summary Readiness: every configured feed has data
	// @Tags Meta
	// @Produce json
	// @Success 200 {object} Readiness
	// @Failure 503 {object} Readiness
	// @Router /v1/meta/ready [get]
	httpkit.Get(r, "/ready", func(*http.Request) (any, error) {
		rd := probe(d.Checks)
		if rd.Status == "ok" {
			return rd, nil
		}
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: rd}, nil
	})

	// @Summary Build and version info
	// @Tags Meta
	// @Produce json
	// @Success 200 {object} version.BuildInfo
	// @Router /v1/meta/version [get]
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
}

func probe(checks []Check) Readiness {
	rd := Readiness{Status: "ok", Feeds: make([]FeedState, 0, len(checks))}
	ready, failed := 0, 0
	for _, c := range checks {
		fs := FeedState{Feed: c.Name, State: "ok"}
		switch err := c.Ready(); {
		case err == nil:
			ready++
		case perr.IsCode(err, perr.ErrorCodeNotConfigured):
			fs.State, fs.Error = "skipped", perr.WireFrom(err).Message
		default:
			fs.State, fs.Error = "fail", perr.WireFrom(err).Message
			failed++
		}
		rd.Feeds = append(rd.Feeds, fs)
	}
	switch {
	case failed == 0:
	case ready == 0:
		rd.Status = "fail"
	default:
		rd.Status = "degraded"
	}
	return rd
}
