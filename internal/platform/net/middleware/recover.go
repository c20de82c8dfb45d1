package middleware

import (
	"net/http"
	"runtime/debug"

	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
	pnet "gridwatch/internal/platform/net"
)

// JSONWriter writes v as the JSON body with the given status
type JSONWriter func(w http.ResponseWriter, status int, v any)

// Recover turns a handler panic into the usual 500 error envelope and logs the stack
func Recover(write JSONWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				rid := pnet.RequestID(r.Context())
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")
				status, body := pnet.Error(perr.PanicErrf("internal error"), rid)
				write(w, status, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
