// Package scope tags a context with why work is happening so the feed services
// can log and publish it without threading an extra argument everywhere
package scope

import "context"

// Trigger values
const (
	Poll    = "poll"
	Manual  = "manual"
	Webhook = "webhook"
)

type triggerKey struct{}

// WithTrigger records what started the work carried by ctx
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, triggerKey{}, trigger)
}

// Trigger reports the value set by WithTrigger, "" when none
func Trigger(ctx context.Context) string {
	t, _ := ctx.Value(triggerKey{}).(string)
	return t
}
