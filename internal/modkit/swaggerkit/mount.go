package swaggerkit

import (
	"net/http"

	phttp "gridwatch/internal/platform/net/http"
)

// Mount serves the UI under prefix and the post-processed document at prefix/doc.json
func Mount(r phttp.Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/index.html", http.StatusPermanentRedirect)
	})
	// chi prefers the static route over the UI wildcard
	r.Get(prefix+"/doc.json", serveDocJSON())
	phttp.MountSwagger(r, prefix, true)
}
