package errors

// Upstream-specific helpers for mapping third-party HTTP answers and transport failures
// to project ErrorCode, and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// UpstreamStatus carries the HTTP status a third-party API answered with
type UpstreamStatus struct {
	Service string
	Status  int
	Body    string
}

// Error implements error
func (u *UpstreamStatus) Error() string {
	if u.Body == "" {
		return fmt.Sprintf("%s: status %d", u.Service, u.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", u.Service, u.Status, u.Body)
}

// StatusCode maps an upstream HTTP status to an ErrorCode
// 401/403 keep their meaning so callers can surface a bad key; 429 stays rate limiting;
// every other failure is a bad gateway
func StatusCode(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return ErrorCodeUnauthorized
	case http.StatusForbidden:
		return ErrorCodeForbidden
	case http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	case http.StatusNotFound:
		return ErrorCodeNotFound
	default:
		return ErrorCodeUpstream
	}
}

// FromStatus wraps a non-2xx upstream answer with a mapped ErrorCode and message
func FromStatus(service string, status int, body, msg string) error {
	if len(body) > 512 {
		body = body[:512]
	}
	return Wrap(&UpstreamStatus{Service: service, Status: status, Body: strings.TrimSpace(body)}, StatusCode(status), msg)
}

// FromTransport wraps a failed round trip (DNS, dial, timeout, reset) as Upstream
// local cancellations keep ErrorCodeUnavailable so they are not blamed on the third party
func FromTransport(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.Canceled) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	return Wrap(err, ErrorCodeUpstream, msg)
}

// StatusOf returns the upstream HTTP status carried by err, if any
func StatusOf(err error) (int, bool) {
	var us *UpstreamStatus
	if stderrs.As(err, &us) {
		return us.Status, true
	}
	return 0, false
}

// IsRetryable reports whether an upstream error represents a transient condition
// worth retrying on the next poll or attempt
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Do not retry local cancellations; let the caller decide higher-level retries
	if stderrs.Is(err, context.Canceled) {
		return false
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}

	if st, ok := StatusOf(err); ok {
		return st == http.StatusTooManyRequests || st >= 500
	}

	var ne net.Error
	if stderrs.As(err, &ne) && ne.Timeout() {
		return true
	}

	// Fallback: text patterns seen from net/http on broken connections
	s := strings.ToLower(Root(err).Error())
	switch {
	case strings.Contains(s, "connection reset by peer"),
		strings.Contains(s, "connection refused"),
		strings.Contains(s, "broken pipe"),
		strings.Contains(s, "unexpected eof"),
		strings.Contains(s, "server closed idle connection"):
		return true
	default:
		return false
	}
}
