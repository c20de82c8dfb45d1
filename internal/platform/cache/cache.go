// Package cache holds the last good value of a polled feed
// A failed refresh never discards the value; it records the error next to it
// so callers can keep serving data and flag it
package cache

import (
	"context"
	"sync"
	"time"

	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"

	"golang.org/x/sync/singleflight"
)

// Observer is notified after every refresh attempt
type Observer interface {
	Refreshed(feed string, err error, at time.Time)
}

// Cache is a single-value last-good cache with an injected clock
type Cache[T any] struct {
	name       string
	clk        clock.Clock
	staleAfter time.Duration
	obs        Observer

	mu        sync.RWMutex
	value     T
	has       bool
	fetchedAt time.Time
	attempted time.Time
	lastErr   error

	sf singleflight.Group
}

// Snapshot is a consistent read of the cache
type Snapshot[T any] struct {
	Value       T
	OK          bool
	FetchedAt   time.Time
	AttemptedAt time.Time
	Age         time.Duration
	Stale       bool
	// Err is the error of the latest attempt, nil once a later attempt succeeds
	Err error
}

// New builds a Cache; staleAfter <= 0 disables staleness
func New[T any](name string, clk clock.Clock, staleAfter time.Duration, obs Observer) *Cache[T] {
	if clk == nil {
		clk = clock.System{}
	}
	return &Cache[T]{name: name, clk: clk, staleAfter: staleAfter, obs: obs}
}

// Name returns the feed name
func (c *Cache[T]) Name() string { return c.name }

// Set stores a freshly fetched value
func (c *Cache[T]) Set(v T) {
	now := c.clk.Now()
	c.mu.Lock()
	c.value, c.has = v, true
	c.fetchedAt, c.attempted = now, now
	c.lastErr = nil
	c.mu.Unlock()
	c.notify(nil, now)
}

// Fail records a failed attempt and keeps the previous value
func (c *Cache[T]) Fail(err error) {
	now := c.clk.Now()
	c.mu.Lock()
	c.attempted = now
	c.lastErr = err
	c.mu.Unlock()
	c.notify(err, now)
}

func (c *Cache[T]) notify(err error, at time.Time) {
	if c.obs != nil {
		c.obs.Refreshed(c.name, err, at)
	}
}

// Snapshot reads value, timestamps and staleness together
func (c *Cache[T]) Snapshot() Snapshot[T] {
	now := c.clk.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Snapshot[T]{
		Value:       c.value,
		OK:          c.has,
		FetchedAt:   c.fetchedAt,
		AttemptedAt: c.attempted,
		Err:         c.lastErr,
	}
	if c.has {
		s.Age = now.Sub(c.fetchedAt)
		s.Stale = c.staleAfter > 0 && s.Age > c.staleAfter
	}
	return s
}

// Ready is nil once a value is held; before that it is the last error,
// or Unavailable when nothing was attempted
func (c *Cache[T]) Ready() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.has {
		return nil
	}
	if c.lastErr != nil {
		return c.lastErr
	}
	return perr.Unavailablef("%s: no data yet", c.name)
}

// Fresh reports whether a value younger than ttl is held
func (c *Cache[T]) Fresh(ttl time.Duration) bool {
	now := c.clk.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.has && now.Sub(c.fetchedAt) < ttl
}

// Refresh runs fetch and stores its outcome. Concurrent callers share one
// in-flight fetch, which runs detached from any one caller's cancellation
// (the first caller's deadline still applies). A caller whose ctx ends stops
// waiting and gets ctx.Err(); the shared fetch carries on for the others
func (c *Cache[T]) Refresh(ctx context.Context, fetch func(context.Context) (T, error)) (Snapshot[T], error) {
	ch := c.sf.DoChan(c.name, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if dl, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			fctx, cancel = context.WithDeadline(fctx, dl)
			defer cancel()
		}
		v, err := fetch(fctx)
		if err != nil {
			c.Fail(err)
			return nil, err
		}
		c.Set(v)
		return nil, nil
	})
	select {
	case res := <-ch:
		return c.Snapshot(), res.Err
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// Get serves the held value while it is younger than ttl, otherwise refreshes first
// refresh errors surface through Snapshot.Err alongside the last good value
func (c *Cache[T]) Get(ctx context.Context, ttl time.Duration, fetch func(context.Context) (T, error)) Snapshot[T] {
	if c.Fresh(ttl) {
		return c.Snapshot()
	}
	s, _ := c.Refresh(ctx, fetch)
	return s
}
