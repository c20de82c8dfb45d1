package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"gridwatch/internal/adapters/ukrainealarm"
	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
	phttp "gridwatch/internal/platform/net/http"
	"gridwatch/internal/platform/net/middleware"
	"gridwatch/internal/services/alerts/service"
)

type stubAPI struct{ key string }

func (s stubAPI) Configured() bool { return s.key != "" }
func (stubAPI) Regions(context.Context) ([]ukrainealarm.Region, error) {
	return []ukrainealarm.Region{{RegionID: "31", RegionName: "м. Київ"}}, nil
}
func (stubAPI) OblastString(context.Context) (string, error) { return "NNNN", nil }
func (stubAPI) RegisterWebhook(context.Context, string) (string, error) {
	return "", perr.FromStatus("ukrainealarm", 400, "bad url", "register")
}

type hookCounter map[string]int

func (h hookCounter) Refreshed(string, error, time.Time) {}
func (h hookCounter) Webhook(res string)                 { h[res]++ }

func setup(t *testing.T, secret string) (*chi.Mux, hookCounter) {
	t.Helper()
	hooks := hookCounter{}
	s := service.New(stubAPI{key: "k"}, nil, clock.NewFixed(time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC)),
		service.Config{WebhookURL: "https://grid.example/api/webhook/alerts"}, hooks)

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/alerts", func(rr httpkit.Router) { Register(rr, s, nil) })
	r.Route("/webhook", func(rr httpkit.Router) {
		RegisterWebhook(rr, s, WebhookDeps{
			Secret: middleware.HeaderSecret{Header: "Authorization", Secret: secret, Caller: "ukrainealarm"},
			Admin:  httpkit.StaticToken("adm", "admin"),
		})
	})
	return mux, hooks
}

func post(mux *chi.Mux, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(stdhttp.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestReceive_SecretValidationAndStore(t *testing.T) {
	mux, hooks := setup(t, "s3cret")
	body := `{"regionId":"14","regionName":"Київська область","regionType":"State","activeAlerts":[{"regionId":"14","type":"AIR"}],"extra":1}`

	if rr := post(mux, "/webhook/alerts", "wrong", body); rr.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("wrong secret: got %d", rr.Code)
	}
	if rr := post(mux, "/webhook/alerts", "s3cret", `{"regionId":"14"}`); rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("missing name: got %d", rr.Code)
	}
	rr := post(mux, "/webhook/alerts", "s3cret", body)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("delivery: got %d %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			OK       bool   `json:"ok"`
			Received string `json:"received"`
		} `json:"data"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	if !env.Data.OK || env.Data.Received != "14" {
		t.Fatalf("ack = %+v", env.Data)
	}
	if hooks["rejected"] != 1 || hooks["invalid"] != 1 || hooks["ok"] != 1 {
		t.Fatalf("hooks = %v", hooks)
	}

	// the delivery is visible without polling
	req := httptest.NewRequest(stdhttp.MethodGet, "/alerts/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"regionId":"14"`) || strings.Contains(rec.Body.String(), `"regionId":"31"`) {
		t.Fatalf("alerts = %s", rec.Body.String())
	}
}

func TestRegister_AdminAndUpstreamStatus(t *testing.T) {
	mux, _ := setup(t, "")

	if rr := post(mux, "/webhook/register", "", ""); rr.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("no admin token: got %d", rr.Code)
	}
	rr := post(mux, "/webhook/register", "Bearer adm", "")
	if rr.Code != stdhttp.StatusBadGateway {
		t.Fatalf("provider 400: got %d, want 502", rr.Code)
	}

	req := httptest.NewRequest(stdhttp.MethodGet, "/webhook/register", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"hasApiKey":true`) {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}
}

func TestFoldMap_RecordShapes(t *testing.T) {
	mux, _ := setup(t, "")

	// Kharkiv by an unfinished record, Kyiv flag false wins over its null finished_at
	body := `[{"location_uid":22,"finished_at":null},{"regionId":"14","activeAlert":false,"finished_at":null},{"alert_type":"AIR_RAID"}]`
	rr := post(mux, "/alerts/map", "", body)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("fold: got %d %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			Regions []struct {
				ID      int  `json:"id"`
				IsAlert bool `json:"is_alert"`
			} `json:"regions"`
			Active int `json:"active"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Active != 1 || len(env.Data.Regions) != 25 || !env.Data.Regions[18].IsAlert {
		t.Fatalf("map = %+v", env.Data)
	}

	// the store is untouched
	req := httptest.NewRequest(stdhttp.MethodGet, "/alerts/map", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"active":0`) {
		t.Fatalf("stored map = %s", rec.Body.String())
	}

	if rr := post(mux, "/alerts/map", "", `{"ok":false}`); rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("no records: got %d, want 400", rr.Code)
	}
}
