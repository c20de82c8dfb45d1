// Package http provides helpers for writing JSON responses with a consistent envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "gridwatch/internal/platform/errors"
	lumnet "gridwatch/internal/platform/net"
)

// Envelope is the body every API endpoint answers with
type Envelope = lumnet.Wire

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers hand back
type Response struct {
	Status int
	Body   any
	// Warn rides along a successful body, e.g. a cached schedule served after a failed refresh
	Warn   error
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns a response whose status comes from the error code
func Error(err error) Response { return Response{Body: err} }

// Degraded returns a 200 that carries data together with a non-fatal error
func Degraded(data any, warn error) Response {
	return Response{Status: stdhttp.StatusOK, Body: data, Warn: warn}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}

	env := Envelope{StatusCode: resp.Status, RequestID: lumnet.RequestID(r.Context())}
	if env.StatusCode == 0 {
		env.StatusCode = stdhttp.StatusOK
	}
	warn := resp.Warn
	if err, ok := resp.Body.(error); ok && err != nil {
		env.StatusCode = perr.HTTPStatus(err)
		warn = err
	} else {
		env.Data = resp.Body
	}
	if warn != nil {
		wr := perr.WireFrom(warn)
		env.Code, env.Error = wr.Code, wr.Message
	}
	env.Status = stdhttp.StatusText(env.StatusCode)
	JSON(w, env.StatusCode, env)
}
