// Package modkit provides module wiring and core deps
package modkit

import (
	"time"

	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/config"
	"gridwatch/internal/platform/metrics"
)

// Deps is what every module gets from main. The zero value works in tests:
// a nil Metrics records nothing and a nil Clock reads the wall clock
type Deps struct {
	Cfg     config.Conf
	Clock   clock.Clock
	Loc     *time.Location
	Metrics *metrics.Metrics
}

// Now reads the injected clock, falling back to the system clock
func (d Deps) Now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}

// Location returns the dashboard time zone, UTC when unset
func (d Deps) Location() *time.Location {
	if d.Loc == nil {
		return time.UTC
	}
	return d.Loc
}

