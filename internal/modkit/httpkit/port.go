package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "gridwatch/internal/platform/errors"
	pnet "gridwatch/internal/platform/net"
	"gridwatch/internal/platform/net/middleware"
)

// staticToken guards the admin routes (manual refresh, push send, webhook registration)
type staticToken struct {
	token  []byte
	caller string
}

// StaticToken returns a SecretPort accepting "Authorization: Bearer <token>".
// An empty token yields a nil port and Protected leaves the group open
func StaticToken(token, caller string) middleware.SecretPort {
	if token == "" {
		return nil
	}
	return &staticToken{token: []byte(token), caller: caller}
}

func (s *staticToken) Verify(r *http.Request) (string, error) {
	got, err := BearerToken(r)
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(got), s.token) != 1 {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return s.caller, nil
}

// BearerToken reads the token of an Authorization header, the scheme is case insensitive
func BearerToken(r *http.Request) (string, error) {
	scheme, tok, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	tok = strings.TrimSpace(tok)
	if !strings.EqualFold(scheme, "bearer") || tok == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return tok, nil
}

// Caller returns who passed Auth on this request, empty on open routes
func Caller(r *http.Request) string { return pnet.Caller(r.Context()) }
