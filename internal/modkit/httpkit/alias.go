// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "gridwatch/internal/platform/net/http"
	"gridwatch/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response lets a handler pick the status, e.g. 503 from /meta/ready
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// Degraded returns a 200 carrying last good data plus the refresh error
func Degraded(data any, warn error) Response { return phttp.Degraded(data, warn) }

// lenient accepts payloads with fields we do not model, third parties add them freely
var lenient = bind.JSONOptions{MaxBytes: 64 << 10}

// JSON decodes and validates a body into T, then wraps the result in the envelope
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Call(func(r *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](r, lenient)
		if err != nil {
			return nil, err
		}
		return fn(r, in)
	})
}

// Call adapts a handler that takes no JSON body
// a returned Response is written as is, anything else becomes a 200 envelope
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Param returns a path parameter captured by the router
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// Query returns a trimmed query value or def when absent
func Query(r *http.Request, key, def string) string { return phttp.Query(r, key, def) }

// Var validates a single query or path value against a validator tag
func Var(field string, value any, tag string) error { return bind.Var(field, value, tag) }

// Bind decodes and validates a JSON body into T, for handlers that must check
// something before the body
func Bind[T any](r *http.Request) (T, error) { return bind.ParseJSON[T](r, lenient) }
