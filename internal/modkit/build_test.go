package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"gridwatch/internal/modkit/httpkit"
	phttp "gridwatch/internal/platform/net/http"
)

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()
	b := Build()
	if b.Name != "" || b.Prefix != "" || len(b.Mw) != 0 || b.Register != nil {
		t.Fatalf("zero build = %+v", b)
	}
}

func TestBuild_LaterOptionsWin(t *testing.T) {
	t.Parallel()
	b := Build(WithName("alerts"), WithPrefix("/alerts"), WithName("webhook"), WithPrefix("/api/webhook"))
	if b.Name != "webhook" || b.Prefix != "/api/webhook" {
		t.Fatalf("got %q %q", b.Name, b.Prefix)
	}
}

func TestBuild_MiddlewaresCopied(t *testing.T) {
	t.Parallel()
	noop := func(h http.Handler) http.Handler { return h }
	b := Build(WithMiddlewares(noop), WithMiddlewares(noop))
	if len(b.Mw) != 2 {
		t.Fatalf("got %d middlewares, want 2", len(b.Mw))
	}
	b.Mw[0] = nil
	if again := Build(WithMiddlewares(noop)); again.Mw[0] == nil {
		t.Fatal("Build should hand out its own slice")
	}
}

func TestMount_ScopesRoutesAndMiddleware(t *testing.T) {
	t.Parallel()
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	b := Build(WithMiddlewares(tag("a"), tag("b")), WithRegister(func(r httpkit.Router) {
		httpkit.Get(r, "/groups", func(*http.Request) (any, error) { return []string{"GPV5.2"}, nil })
	}))

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), "/outage", b.Mw, b.Register)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/outage/groups", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("middleware order = %v", order)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/groups", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unscoped path: got %d, want 404", rr.Code)
	}
}
