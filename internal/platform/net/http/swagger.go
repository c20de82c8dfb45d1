package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger mounts the swagger UI and doc.json under prefix. Example: "/swagger"
func MountSwagger(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	h := httpSwagger.Handler(httpSwagger.URL(prefix + "/doc.json"))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		h.ServeHTTP(w, req)
	})
}
