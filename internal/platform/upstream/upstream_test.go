package upstream_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "gridwatch/internal/platform/errors"
	kit "gridwatch/internal/platform/testkit"
	"gridwatch/internal/platform/upstream"

	"github.com/rs/zerolog"
)

type recorded struct {
	service string
	status  int
	err     error
}

type fakeRecorder struct {
	mu  sync.Mutex
	got []recorded
}

func (f *fakeRecorder) Upstream(service string, status int, err error, _ time.Duration) {
	f.mu.Lock()
	f.got = append(f.got, recorded{service, status, err})
	f.mu.Unlock()
}

func fast(o upstream.Options) upstream.Options {
	o.RetryWaitMin = time.Millisecond
	o.RetryWaitMax = 2 * time.Millisecond
	return o
}

func TestGetJSON_DefaultHeadersAndDecode(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{
		"GET /api/v3/regions": {Body: `{"states":[{"regionId":"14"}]}`},
	})
	rec := &fakeRecorder{}
	c := upstream.New(fast(upstream.Options{
		Service:  "ukrainealarm",
		BaseURL:  up.URL + "/",
		Header:   map[string]string{"Authorization": "key-1"},
		Recorder: rec,
	}))

	var out struct {
		States []struct {
			RegionID string `json:"regionId"`
		} `json:"states"`
	}
	if err := c.GetJSON(context.Background(), "/api/v3/regions", nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if len(out.States) != 1 || out.States[0].RegionID != "14" {
		t.Fatalf("decoded: %+v", out)
	}

	seen, _ := up.Last("GET /api/v3/regions")
	if got := seen.Header.Get("Authorization"); got != "key-1" {
		t.Fatalf("authorization: got %q, want key-1", got)
	}
	if got := seen.Header.Get("User-Agent"); got != "gridwatch" {
		t.Fatalf("user-agent: got %q", got)
	}
	if len(rec.got) != 1 || rec.got[0].status != 200 || rec.got[0].err != nil {
		t.Fatalf("recorder: %+v", rec.got)
	}
}

func TestDo_PerCallHeaderOverrides(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{"GET /x": {Body: "ok"}})
	c := upstream.New(upstream.Options{Service: "s", BaseURL: up.URL, Header: map[string]string{"Accept": "application/json"}})

	if _, err := c.GetBytes(context.Background(), "x", http.Header{"Accept": {"text/plain"}}); err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	seen, _ := up.Last("GET /x")
	if got := seen.Header.Values("Accept"); len(got) != 1 || got[0] != "text/plain" {
		t.Fatalf("accept: got %v", got)
	}
}

func TestDo_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("fine"))
	}))
	t.Cleanup(srv.Close)

	c := upstream.New(fast(upstream.Options{Service: "outage", BaseURL: srv.URL, RetryMax: 3}))
	b, err := c.GetBytes(context.Background(), "/feed.json", nil)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if string(b) != "fine" || calls.Load() != 3 {
		t.Fatalf("got %q after %d calls, want fine after 3", b, calls.Load())
	}
}

func TestDo_ExhaustedRetriesMapToUpstream(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{"GET /x": {Status: 503, Body: "down"}})
	c := upstream.New(fast(upstream.Options{Service: "openmeteo", BaseURL: up.URL, RetryMax: 1}))

	_, err := c.GetBytes(context.Background(), "/x", nil)
	if perr.CodeOf(err) != perr.ErrorCodeUpstream {
		t.Fatalf("code: got %v, want upstream", perr.CodeOf(err))
	}
	if st, ok := perr.StatusOf(err); !ok || st != 503 {
		t.Fatalf("status: got %d %v", st, ok)
	}
	if up.Hits("GET /x") != 2 {
		t.Fatalf("hits: got %d, want 2", up.Hits("GET /x"))
	}
}

func TestDo_UnauthorizedKeepsMeaning(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{"GET /api/inverter/realtime": {Status: 401, Body: `{"error":"bad token"}`}})
	c := upstream.New(upstream.Options{Service: "inverter", BaseURL: up.URL, RetryMax: -1})

	res, err := c.Do(context.Background(), http.MethodGet, "/api/inverter/realtime", nil, nil)
	if perr.CodeOf(err) != perr.ErrorCodeUnauthorized {
		t.Fatalf("code: got %v, want unauthorized", perr.CodeOf(err))
	}
	if res == nil || res.Status != 401 {
		t.Fatalf("response should be returned alongside the error: %+v", res)
	}
	if up.Hits("GET /api/inverter/realtime") != 1 {
		t.Fatalf("4xx must not be retried")
	}
}

func TestDo_BodyCap(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{"GET /big": {Body: strings.Repeat("a", 64)}})
	c := upstream.New(upstream.Options{Service: "s", BaseURL: up.URL, MaxBody: 16})

	_, err := c.GetBytes(context.Background(), "/big", nil)
	if perr.CodeOf(err) != perr.ErrorCodeUpstream {
		t.Fatalf("code: got %v, want upstream", perr.CodeOf(err))
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &fakeRecorder{}
	c := upstream.New(upstream.Options{Service: "push", BaseURL: url, RetryMax: -1, Recorder: rec})
	_, err := c.GetBytes(context.Background(), "/", nil)
	if perr.CodeOf(err) != perr.ErrorCodeUpstream {
		t.Fatalf("code: got %v, want upstream", perr.CodeOf(err))
	}
	if len(rec.got) != 1 || rec.got[0].status != 0 {
		t.Fatalf("recorder: %+v", rec.got)
	}
}

func TestPostJSON_SendsBody(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{"POST /push/send": {Body: `{"sent":3}`}})
	c := upstream.New(upstream.Options{Service: "push", BaseURL: up.URL})

	res, err := c.PostJSON(context.Background(), "/push/send", map[string]string{"type": "blackout_30min"}, http.Header{"Idempotency-Key": {"k-1"}})
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if string(res.Body) != `{"sent":3}` {
		t.Fatalf("body: %s", res.Body)
	}

	seen, _ := up.Last("POST /push/send")
	var in map[string]string
	if err := json.Unmarshal(seen.Body, &in); err != nil || in["type"] != "blackout_30min" {
		t.Fatalf("sent body: %s (%v)", seen.Body, err)
	}
	if seen.Header.Get("Content-Type") != "application/json" || seen.Header.Get("Idempotency-Key") != "k-1" {
		t.Fatalf("headers: %v", seen.Header)
	}
}

type countingTransport struct {
	n  atomic.Int32
	rt http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.n.Add(1)
	return c.rt.RoundTrip(r)
}

func TestNew_SharedHTTPClientIsNotModified(t *testing.T) {
	up := kit.NewUpstream(t, map[string]kit.Reply{"GET /x": {Body: "ok"}})
	tr := &countingTransport{rt: http.DefaultTransport}
	shared := &http.Client{Transport: tr, Timeout: time.Minute}

	a := upstream.New(upstream.Options{Service: "weather", BaseURL: up.URL, Timeout: 2 * time.Second, HTTPClient: shared})
	b := upstream.New(upstream.Options{Service: "inverter", BaseURL: up.URL, Timeout: 5 * time.Second, HTTPClient: shared})

	if shared.Timeout != time.Minute {
		t.Fatalf("shared client timeout: got %v, want %v", shared.Timeout, time.Minute)
	}
	for _, c := range []*upstream.Client{a, b} {
		if _, err := c.GetBytes(context.Background(), "/x", nil); err != nil {
			t.Fatalf("%s: %v", c.Service(), err)
		}
	}
	if got := tr.n.Load(); got != 2 {
		t.Fatalf("transport calls: got %d, want 2", got)
	}
}

func TestURL_Resolution(t *testing.T) {
	c := upstream.New(upstream.Options{BaseURL: "https://api.example.test/"})
	cases := map[string]string{
		"/a":                    "https://api.example.test/a",
		"a":                     "https://api.example.test/a",
		"":                      "https://api.example.test",
		"https://other.test/b?": "https://other.test/b?",
	}
	for in, want := range cases {
		if got := c.URL(in); got != want {
			t.Fatalf("URL(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestLeveledLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := upstream.LeveledLogger{L: zerolog.New(&buf)}
	l.Warn("retrying request", "url", "http://x", "retry", 1)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line not json: %q", buf.String())
	}
	if line["level"] != "warn" || line["url"] != "http://x" || line["message"] != "retrying request" {
		t.Fatalf("log line: %v", line)
	}
}
