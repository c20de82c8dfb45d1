package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"gridwatch/internal/modkit/httpkit"
	"gridwatch/internal/modkit/scope"
	perr "gridwatch/internal/platform/errors"
	phttp "gridwatch/internal/platform/net/http"
	"gridwatch/internal/services/outage/domain"
)

type fakeSvc struct {
	refreshErr error
	trigger    string
	day, group string
}

func (f *fakeSvc) Refresh(ctx context.Context) error {
	f.trigger = scope.Trigger(ctx)
	return f.refreshErr
}

func (f *fakeSvc) Overview(context.Context) domain.Overview {
	return domain.Overview{Group: "GPV5.2", GroupLabel: "5.2"}
}

func (f *fakeSvc) Day(_ context.Context, which, group string) (domain.Day, error) {
	f.day, f.group = which, group
	if which == "bad" {
		return domain.Day{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "day must be today, tomorrow or YYYY-MM-DD"), "day")
	}
	return domain.Day{Date: "2026-10-17", Group: "GPV" + group}, nil
}

func (f *fakeSvc) Groups(context.Context) domain.Groups {
	return domain.Groups{Date: "2026-10-16", Groups: []string{"GPV5.2"}}
}

func (f *fakeSvc) Subscribe(domain.Listener) {}

func mount(s *fakeSvc, token string) *chi.Mux {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/outage", func(rr httpkit.Router) {
		Register(rr, s, httpkit.StaticToken(token, "admin"))
	})
	return mux
}

func do(t *testing.T, mux *chi.Mux, method, path, auth string) (int, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rr.Body.String())
	}
	return rr.Code, env
}

func TestOverviewAndGroups(t *testing.T) {
	mux := mount(&fakeSvc{}, "")

	code, env := do(t, mux, stdhttp.MethodGet, "/outage/", "")
	if code != stdhttp.StatusOK {
		t.Fatalf("overview: got %d, want 200", code)
	}
	if data, _ := env.Data.(map[string]any); data["group"] != "GPV5.2" {
		t.Fatalf("overview data = %v", env.Data)
	}

	code, env = do(t, mux, stdhttp.MethodGet, "/outage/groups", "")
	if code != stdhttp.StatusOK {
		t.Fatalf("groups: got %d", code)
	}
	if data, _ := env.Data.(map[string]any); data["date"] != "2026-10-16" {
		t.Fatalf("groups data = %v", env.Data)
	}
}

func TestDay_ValidatesGroupAndForwards(t *testing.T) {
	s := &fakeSvc{}
	mux := mount(s, "")

	code, _ := do(t, mux, stdhttp.MethodGet, "/outage/days/tomorrow?group=5.2", "")
	if code != stdhttp.StatusOK || s.day != "tomorrow" || s.group != "5.2" {
		t.Fatalf("code=%d day=%q group=%q", code, s.day, s.group)
	}

	code, env := do(t, mux, stdhttp.MethodGet, "/outage/days/today?group=five", "")
	if code != stdhttp.StatusBadRequest || env.Code != perr.ErrorCodeValidation {
		t.Fatalf("bad group: code=%d env=%+v", code, env)
	}

	code, _ = do(t, mux, stdhttp.MethodGet, "/outage/days/bad", "")
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("bad day: got %d, want 400", code)
	}
}

func TestRefresh_TokenAndDegraded(t *testing.T) {
	s := &fakeSvc{refreshErr: perr.Upstreamf("feed answered 503")}
	mux := mount(s, "sekret")

	if code, _ := do(t, mux, stdhttp.MethodPost, "/outage/refresh", ""); code != stdhttp.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", code)
	}

	code, env := do(t, mux, stdhttp.MethodPost, "/outage/refresh", "Bearer sekret")
	if code != stdhttp.StatusOK {
		t.Fatalf("refresh: got %d, want 200", code)
	}
	if env.Code != perr.ErrorCodeUpstream || env.Data == nil {
		t.Fatalf("degraded envelope = %+v", env)
	}
	if s.trigger != "manual" {
		t.Fatalf("trigger = %q, want manual", s.trigger)
	}
}
