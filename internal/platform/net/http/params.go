package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// URLParam returns a path parameter captured by the router
func URLParam(r *stdhttp.Request, key string) string { return chi.URLParam(r, key) }

// Query returns a trimmed query value or def when absent
func Query(r *stdhttp.Request, key, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return v
	}
	return def
}
