package modkit

import "context"

// Worker is a long running loop a module exposes through its ports
// Run blocks until ctx is done and returns ctx.Err() on a clean stop
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to Worker
type WorkerFunc func(ctx context.Context) error

// Run implements Worker
func (f WorkerFunc) Run(ctx context.Context) error { return f(ctx) }
