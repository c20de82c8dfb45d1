package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	perr "gridwatch/internal/platform/errors"
	pnet "gridwatch/internal/platform/net"
	kit "gridwatch/internal/platform/testkit"
)

func TestRecover_WritesPanicEnvelope(t *testing.T) {
	var status int
	var body pnet.Wire
	write := func(_ http.ResponseWriter, s int, v any) { status, body = s, v.(pnet.Wire) }

	h := Recover(write)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("nil map") }))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/outage", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-9", ""))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if status != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", status)
	}
	if body.Code != perr.ErrorCodePanic || body.RequestID != "rid-9" {
		t.Fatalf("body = %+v", body)
	}
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	h := Recover(func(http.ResponseWriter, int, any) { t.Fatal("abort must not be written") })(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) }),
	)
	kit.MustPanic(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
