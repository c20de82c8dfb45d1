// Package errors is the project error type: a code for the wire, a message for people
// and an optional wrapped cause. Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable kind of an error. The values are part of the JSON envelope
type ErrorCode string

// Codes, with the HTTP status each maps to
const (
	ErrorCodeUnknown         ErrorCode = "unknown"           // 500
	ErrorCodePanic           ErrorCode = "panic"             // 500
	ErrorCodeUnavailable     ErrorCode = "unavailable"       // 503, transient, a retry may work
	ErrorCodeTooManyRequests ErrorCode = "too_many_requests" // 429
	ErrorCodeConflict        ErrorCode = "conflict"          // 409
	ErrorCodeUnauthorized    ErrorCode = "unauthorized"      // 401
	ErrorCodeForbidden       ErrorCode = "forbidden"         // 403
	ErrorCodeInvalidArgument ErrorCode = "invalid_argument"  // 422
	ErrorCodeValidation      ErrorCode = "validation"        // 400
	ErrorCodeJSON            ErrorCode = "json"              // 400
	ErrorCodeNotFound        ErrorCode = "not_found"         // 404
	ErrorCodeUpstream        ErrorCode = "upstream"          // 502, a feed answered badly or not at all
	ErrorCodeNotConfigured   ErrorCode = "not_configured"    // 503, switched off by a missing key or token
)

var statusOf = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeUpstream:        http.StatusBadGateway,
	ErrorCodeNotConfigured:   http.StatusServiceUnavailable,
}

// Status is the HTTP status for code, 500 when the code has none
func (c ErrorCode) Status() int {
	if s, ok := statusOf[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error. Field names the input that failed validation and
// Op the outbound call that failed; both are optional
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	cause error
}

// Wire is the error part of a response; the cause never leaves the process
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	msg := e.msg
	if e.op != "" {
		msg = e.op + ": " + msg
	}
	if e.cause == nil {
		return msg
	}
	return msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error    { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Op() string      { return e.op }

// As returns the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// WireFrom renders err for a response. Foreign errors surface as unknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field}
}

func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is CodeOf(err).Status()
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// Root follows Unwrap to the innermost error
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// WithField copies err with the failing field set. Foreign errors are returned unchanged
func WithField(err error, field string) error {
	return annotate(err, func(e *Error) { e.field = field })
}

// WithOp copies err with the failing call set, e.g. "GET /v1/alerts"
func WithOp(err error, op string) error {
	return annotate(err, func(e *Error) { e.op = op })
}

func annotate(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	set(&cp)
	return &cp
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error { return New(code, fmt.Sprintf(format, a...)) }

// Wrap keeps cause for logs and errors.Is while the response shows only msg
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

// Shorthands for the codes raised most often
func Upstreamf(format string, a ...any) error      { return Newf(ErrorCodeUpstream, format, a...) }
func NotConfiguredf(format string, a ...any) error { return Newf(ErrorCodeNotConfigured, format, a...) }
func Unavailablef(format string, a ...any) error   { return Newf(ErrorCodeUnavailable, format, a...) }
func Unauthorizedf(format string, a ...any) error  { return Newf(ErrorCodeUnauthorized, format, a...) }
func JSONErrf(format string, a ...any) error       { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error      { return Newf(ErrorCodePanic, format, a...) }

// Retryable reports whether the next poll may succeed where this one failed, see IsRetryable
func Retryable(err error) bool { return IsRetryable(err) }
