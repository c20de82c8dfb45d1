package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusUnauthorized, ErrorCodeUnauthorized},
		{http.StatusForbidden, ErrorCodeForbidden},
		{http.StatusTooManyRequests, ErrorCodeTooManyRequests},
		{http.StatusNotFound, ErrorCodeNotFound},
		{http.StatusInternalServerError, ErrorCodeUpstream},
		{http.StatusBadGateway, ErrorCodeUpstream},
		{http.StatusBadRequest, ErrorCodeUpstream},
	}
	for _, c := range cases {
		if got := StatusCode(c.status); got != c.want {
			t.Fatalf("StatusCode(%d) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestFromStatus(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	err := FromStatus("inverter", 401, string(long), "inverter api rejected token")
	if !IsCode(err, ErrorCodeUnauthorized) {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if HTTPStatus(err) != http.StatusUnauthorized {
		t.Fatalf("http status = %d", HTTPStatus(err))
	}
	st, ok := StatusOf(err)
	if !ok || st != 401 {
		t.Fatalf("StatusOf = %d, %v", st, ok)
	}
	var us *UpstreamStatus
	if !stderrs.As(err, &us) || len(us.Body) != 512 {
		t.Fatalf("body not truncated")
	}
	if WireFrom(err).Message != "inverter api rejected token" {
		t.Fatalf("wire leaks upstream body: %+v", WireFrom(err))
	}

	if got := HTTPStatus(FromStatus("alerts", 503, "", "down")); got != http.StatusBadGateway {
		t.Fatalf("503 upstream should surface as 502, got %d", got)
	}
}

func TestFromTransport(t *testing.T) {
	if FromTransport(nil, "x") != nil {
		t.Fatalf("nil in, nil out")
	}
	if !IsCode(FromTransport(stderrs.New("dial tcp: refused"), "x"), ErrorCodeUpstream) {
		t.Fatalf("transport failure should be upstream")
	}
	if !IsCode(FromTransport(context.Canceled, "x"), ErrorCodeUnavailable) {
		t.Fatalf("cancellation should be unavailable")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), true},
		{"502", FromStatus("x", 502, "", "m"), true},
		{"429", FromStatus("x", 429, "", "m"), true},
		{"401", FromStatus("x", 401, "", "m"), false},
		{"404", FromStatus("x", 404, "", "m"), false},
		{"net timeout", Wrap(timeoutErr{}, ErrorCodeUpstream, "get"), true},
		{"reset", stderrs.New("read tcp: connection reset by peer"), true},
		{"decode", stderrs.New("invalid character"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("%s: IsRetryable = %v, want %v", c.name, got, c.want)
		}
		if Retryable(c.err) != IsRetryable(c.err) {
			t.Fatalf("%s: Retryable disagrees", c.name)
		}
	}
}
