package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "gridwatch/internal/platform/net/http"
	kit "gridwatch/internal/platform/testkit"
)

func mounted(t *testing.T) *chi.Mux {
	t.Helper()
	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), "/swagger", true)
	return m
}

func TestDocJSON_AddsServersAndDefaultErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	mounted(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}

	var spec map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
		t.Fatalf("doc.json is not JSON: %v", err)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	servers, _ := spec["servers"].([]any)
	if len(servers) != 1 {
		t.Fatalf("servers = %v", spec["servers"])
	}
	paths, _ := spec["paths"].(map[string]any)
	op, _ := paths["/v1/outage"].(map[string]any)["get"].(map[string]any)
	resps, _ := op["responses"].(map[string]any)
	if _, ok := resps["500"]; !ok {
		t.Fatalf("GET /v1/outage has no default 500: %v", resps)
	}
	if _, ok := resps["400"]; !ok {
		t.Fatalf("GET /v1/outage has no default 400: %v", resps)
	}
}

func TestDocJSON_TitleSuffix(t *testing.T) {
	t.Setenv("API_DOCS_TITLE_SUFFIX", "(staging)")

	rr := httptest.NewRecorder()
	mounted(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	var spec map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &spec)
	title := spec["info"].(map[string]any)["title"].(string)
	if title != "gridwatch API (staging)" {
		t.Fatalf("title = %q", title)
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatal("ErrorResponse schema missing")
	}
}

func TestDocJSON_BrokenDocument(t *testing.T) {
	kit.Swap(t, &docReader, func() string { return "{" })

	rr := httptest.NewRecorder()
	mounted(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
}

func TestMount_RedirectAndDisabled(t *testing.T) {
	rr := httptest.NewRecorder()
	mounted(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("got %d, want 308", rr.Code)
	}

	off := chi.NewRouter()
	Mount(phttp.AdaptChi(off), "/swagger", false)
	rr = httptest.NewRecorder()
	off.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled: got %d, want 404", rr.Code)
	}
}
