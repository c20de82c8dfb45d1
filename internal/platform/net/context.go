// Package net keeps the per request values handlers and middleware share:
// request id (chi's), client address and the caller that passed Auth
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey uint8

const (
	clientKey ctxKey = iota + 1
	callerKey
)

// WithRequest stores the request id where chi's GetReqID finds it plus the client address.
// Empty values are not stored
func WithRequest(ctx context.Context, reqID, remoteIP string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return put(ctx, clientKey, remoteIP)
}

// WithCaller records who passed a shared secret check
func WithCaller(ctx context.Context, caller string) context.Context {
	return put(ctx, callerKey, caller)
}

func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

func RemoteIP(ctx context.Context) string { return get(ctx, clientKey) }

func Caller(ctx context.Context) string { return get(ctx, callerKey) }

func put(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

func get(ctx context.Context, k ctxKey) string {
	v, _ := ctx.Value(k).(string)
	return v
}
