package service

import (
	"context"
	"time"

	"gridwatch/internal/modkit/scope"
)

// Run refreshes immediately, then every interval until ctx is done
// refresh errors are logged by Refresh and never stop the loop
func (s *Svc) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = 2 * time.Minute
	}
	ctx = scope.WithTrigger(ctx, scope.Poll)
	_ = s.Refresh(ctx)

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_ = s.Refresh(ctx)
		}
	}
}
