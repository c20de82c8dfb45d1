package middleware

import (
	"net"
	"net/http"

	"gridwatch/internal/platform/logger"
	pnet "gridwatch/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestContext copies the chi request id and the client address into the
// logger and pnet context so logger.C(ctx) carries them for the rest of the chain.
// Mount after RequestID and RealIP
func RequestContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			rid := chimw.GetReqID(r.Context())
			ctx := logger.WithRequest(r.Context(), rid, ip)
			ctx = pnet.WithRequest(ctx, "", ip)
			if rid != "" {
				w.Header().Set("X-Request-ID", rid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP strips the port from RemoteAddr (RealIP may already have replaced it with a bare IP)
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
