package http

import (
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
	phttp "gridwatch/internal/platform/net/http"
)

var started = time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC)

func mount(checks ...Check) *chi.Mux {
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/meta", func(r httpkit.Router) {
		Register(r, Deps{
			ServiceName: "gridwatch-api",
			StartedAt:   started,
			Clock:       clock.NewFixed(started.Add(5 * time.Minute)),
			Checks:      checks,
		})
	})
	return mux
}

func get(t *testing.T, mux *chi.Mux, path string, out any) int {
	t.Helper()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return rr.Code
}

func ok() error { return nil }

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		checks []Check
		code   int
		status string
	}{
		{"all ok", []Check{{"outage", ok}, {"weather", ok}}, stdhttp.StatusOK, "ok"},
		{"unconfigured skipped", []Check{{"outage", ok}, {"inverter", func() error { return perr.NotConfiguredf("no token") }}}, stdhttp.StatusOK, "ok"},
		{"one failing", []Check{{"outage", ok}, {"weather", func() error { return errors.New("timeout") }}}, stdhttp.StatusServiceUnavailable, "degraded"},
		{"none loaded", []Check{{"outage", func() error { return perr.Unavailablef("outage: no data yet") }}}, stdhttp.StatusServiceUnavailable, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var res Readiness
			code := get(t, mount(tc.checks...), "/meta/ready", &res)
			if code != tc.code || res.Status != tc.status || len(res.Feeds) != len(tc.checks) {
				t.Fatalf("got %d %+v, want %d %s", code, res, tc.code, tc.status)
			}
		})
	}
}

func TestReady_ReportsCheckErrors(t *testing.T) {
	var res Readiness
	get(t, mount(Check{"inverter", func() error { return perr.NotConfiguredf("no token") }}), "/meta/ready", &res)
	if c := res.Feeds[0]; c.State != "skipped" || c.Error != "no token" || c.Feed != "inverter" {
		t.Fatalf("check = %+v", c)
	}
}

func TestHealth_Uptime(t *testing.T) {
	var h Health
	code := get(t, mount(), "/meta/health", &h)
	if code != stdhttp.StatusOK || h.Uptime != 300 || h.Service != "gridwatch-api" || h.Now != "2026-10-16T06:05:00Z" {
		t.Fatalf("health = %d %+v", code, h)
	}
}

func TestVersion(t *testing.T) {
	var v map[string]any
	if code := get(t, mount(), "/meta/version", &v); code != stdhttp.StatusOK || len(v) == 0 {
		t.Fatalf("version = %d %v", code, v)
	}
}
