package httpkit

import (
	"net/http"
)

// Get registers a body-less handler wrapped in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post registers a body-less handler wrapped in the envelope, for refresh style actions
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// PostJSON registers a handler whose body is decoded and validated into T first
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(h))
}
