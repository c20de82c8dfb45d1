package module

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"gridwatch/internal/modkit"
	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/config"
	phttp "gridwatch/internal/platform/net/http"
	kit "gridwatch/internal/platform/testkit"
)

func TestFromConfig_WebhookURL(t *testing.T) {
	t.Setenv("ALERTS_PUBLIC_BASE_URL", "https://grid.example/")
	t.Setenv("ALERTS_LOCAL_REGIONS", "31=м. Київ")

	o := FromConfig(config.New())
	if got := o.webhookURL(); got != "https://grid.example/api/webhook/alerts" {
		t.Fatalf("webhook url = %q", got)
	}
	if len(o.Local) != 1 || o.Local[0] != [2]string{"31", "м. Київ"} {
		t.Fatalf("local = %v", o.Local)
	}

	t.Setenv("ALERTS_WEBHOOK_URL", "https://hooks.example/a")
	if got := FromConfig(config.New()).webhookURL(); got != "https://hooks.example/a" {
		t.Fatalf("explicit url = %q", got)
	}
}

func TestModule_AlertsAndWebhookRoutes(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{
		"GET /api/v3/regions": {Body: `[{"regionId":"31","regionName":"м. Київ","regionType":"State",
			"activeAlerts":[{"regionId":"31","type":"AIR"}]}]`},
		"GET /api/v1/iot/active_air_raid_alerts_by_oblast.json": {Body: `"NNNNNNNNNNNANNNNNNNNNNNNNN"`},
	})
	t.Setenv("ALERTS_WEBHOOK_SECRET", "hook")

	deps := modkit.Deps{Cfg: config.New(), Clock: clock.NewFixed(time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC))}
	m := New(deps, Options{APIKey: "key", BaseURL: up.URL})

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	m.MountRoutes(r)
	r.Route("/api", func(api phttp.Router) { m.Webhook().MountRoutes(api) })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/alerts/", nil))
	body := rr.Body.String()
	if rr.Code != http.StatusOK || !strings.Contains(body, `"activeAlert":true`) ||
		!strings.Contains(body, `"oblastString":"NNNNNNNNNNNANNNNNNNNNNNNNN"`) {
		t.Fatalf("alerts: %d %s", rr.Code, body)
	}
	if seen, ok := up.Last("GET /api/v3/regions"); !ok || seen.Header.Get("Authorization") != "key" {
		t.Fatalf("provider auth header = %+v", seen)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/alerts", strings.NewReader(`{"regionId":"31","regionName":"м. Київ"}`))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("webhook without secret: got %d", rr.Code)
	}
}
