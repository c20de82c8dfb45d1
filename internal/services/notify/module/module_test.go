package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"gridwatch/internal/adapters/pushserver"
	"gridwatch/internal/modkit"
	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/config"
	phttp "gridwatch/internal/platform/net/http"
	kit "gridwatch/internal/platform/testkit"
	odomain "gridwatch/internal/services/outage/domain"
)

type fakeOutage struct{ listeners []odomain.Listener }

func (f *fakeOutage) Subscribe(fn odomain.Listener) { f.listeners = append(f.listeners, fn) }

func TestFromConfig(t *testing.T) {
	t.Setenv("PUSH_VAPID_PUBLIC_KEY", "BPub")
	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("NOTIFY_LEAD", "45m")
	t.Setenv("OUTAGE_GROUP_LABEL", "3.1")

	o := FromConfig(config.New())
	if o.BaseURL != pushserver.DefaultBaseURL || o.Region != "kyiv" || o.VAPIDPublicKey != "BPub" {
		t.Fatalf("push options = %+v", o)
	}
	if !o.NotifyEnabled || o.NotifyLead != 45*time.Minute || o.GroupLabel != "3.1" {
		t.Fatalf("notify options = %+v", o)
	}
}

func TestModule_TestPushThroughRelay(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{"POST /push/send": {Body: `{"sent":3}`}})
	deps := modkit.Deps{
		Cfg:   config.New(),
		Clock: clock.NewFixed(time.Date(2026, 10, 16, 18, 30, 0, 0, time.UTC)),
		Loc:   time.FixedZone("EEST", 3*3600),
	}
	m := New(deps, Options{BaseURL: up.URL})
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/push/test", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"sent":3`) {
		t.Fatalf("test: %d %s", rr.Code, rr.Body.String())
	}

	seen, ok := up.Last("POST /push/send")
	if !ok || seen.Header.Get("Idempotency-Key") == "" {
		t.Fatalf("seen = %+v", seen)
	}
	var msg pushserver.Message
	if err := json.Unmarshal(seen.Body, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Region != "kyiv" || !strings.Contains(msg.Body, "о 21:30 (Київ)") {
		t.Fatalf("message = %+v", msg)
	}
}

func TestModule_NotifierWiring(t *testing.T) {
	feed := &fakeOutage{}
	m := New(modkit.Deps{Cfg: config.New()}, Options{Pusher: pushserver.New(nil), Outage: feed})
	if m.ports.Worker != nil || len(feed.listeners) != 0 {
		t.Fatal("notifier must stay off unless enabled")
	}

	m = New(modkit.Deps{Cfg: config.New()}, Options{Pusher: pushserver.New(nil), Outage: feed, NotifyEnabled: true})
	if m.ports.Worker == nil || len(feed.listeners) != 1 {
		t.Fatalf("worker %v listeners %d", m.ports.Worker, len(feed.listeners))
	}
}
