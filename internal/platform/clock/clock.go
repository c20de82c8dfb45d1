// Package clock provides injectable time sources and local-day helpers
package clock

import (
	"sync"
	"time"
)

// Clock is the only way time-dependent code reads "now"
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

// Now implements Clock
func (System) Now() time.Time { return time.Now() }

// Fixed is a settable clock for tests
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed returns a Fixed clock at t
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now implements Clock
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// Midnight returns local midnight of the day t falls on in loc, shifted by offsetDays
// time.Date normalizes DST gaps so the result is always a real instant
func Midnight(t time.Time, loc *time.Location, offsetDays int) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day()+offsetDays, 0, 0, 0, 0, loc)
}

// MinuteOfDay returns minutes elapsed since local midnight in loc (0..1439)
func MinuteOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
