package middleware

import (
	"crypto/subtle"
	"net/http"

	perr "gridwatch/internal/platform/errors"
	pnet "gridwatch/internal/platform/net"
)

// SecretPort verifies the caller of an endpoint protected by a shared secret
type SecretPort interface {
	// Verify returns a caller label or an error when the request is not allowed
	Verify(r *http.Request) (caller string, err error)
}

// HeaderSecret compares one request header against a configured secret.
// An empty Secret disables the check, every request passes
type HeaderSecret struct {
	Header string
	Secret string
	Caller string
}

// Verify implements SecretPort
func (h HeaderSecret) Verify(r *http.Request) (string, error) {
	if h.Secret == "" {
		return h.Caller, nil
	}
	header := h.Header
	if header == "" {
		header = "Authorization"
	}
	got := r.Header.Get(header)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
		return "", perr.Unauthorizedf("invalid %s", header)
	}
	return h.Caller, nil
}

// Auth rejects requests the port does not verify. A nil port passes everything through
func Auth(p SecretPort, write JSONWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := p.Verify(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithCaller(r.Context(), caller)))
		})
	}
}
