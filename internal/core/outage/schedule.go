package outage

import (
	"math"
	"slices"
	"time"
)

// DaySchedule is the interval list of one local day for one group
// zero intervals means no data for that day, which is neither full power nor a full outage
type DaySchedule struct {
	Day       time.Time  `json:"day"`
	Group     string     `json:"group"`
	Intervals []Interval `json:"intervals"`
}

// Build expands and compresses hourly codes for one (day, group)
// an empty mapping still yields one all-day Present interval; use Empty for "no data"
func Build(day time.Time, group string, hours map[string]string) DaySchedule {
	return DaySchedule{Day: day, Group: group, Intervals: Compress(Expand(hours))}
}

// Empty is the no-data schedule for a day the source did not publish
func Empty(day time.Time, group string) DaySchedule {
	return DaySchedule{Day: day, Group: group, Intervals: []Interval{}}
}

// HasData reports whether the schedule carries any intervals
func (d DaySchedule) HasData() bool { return len(d.Intervals) > 0 }

// Slots re-expands the schedule; ok is false when there is no data
func (d DaySchedule) Slots() (Slots, bool) {
	if !d.HasData() {
		return Slots{}, false
	}
	return Explode(d.Intervals), true
}

// HasOutage reports whether any interval is Absent
func (d DaySchedule) HasOutage() bool {
	return slices.ContainsFunc(d.Intervals, func(iv Interval) bool { return iv.State == Absent })
}

// Scheduled reports whether the day carries a real outage plan; an
// all-day "yes" block, which sources publish for days not planned yet, has no outage
func (d DaySchedule) Scheduled() bool { return d.HasData() && d.HasOutage() }

// Equal compares interval lists; Day and Group are ignored
func (d DaySchedule) Equal(o DaySchedule) bool { return slices.Equal(d.Intervals, o.Intervals) }

// Current returns the interval containing now (minutes since local midnight)
// ok is false when there is no data or now is outside [0, DayMinutes)
func (d DaySchedule) Current(now int) (Interval, int, bool) {
	for i, iv := range d.Intervals {
		if iv.Contains(now) {
			return iv, i, true
		}
	}
	return Interval{}, -1, false
}

// NextAbsent returns the first Absent interval starting strictly after now
func (d DaySchedule) NextAbsent(now int) (Interval, bool) {
	return d.nextStarting(now, Absent)
}

// NextPresent returns the first Present interval starting strictly after now
func (d DaySchedule) NextPresent(now int) (Interval, bool) {
	return d.nextStarting(now, Present)
}

func (d DaySchedule) nextStarting(now int, s State) (Interval, bool) {
	for _, iv := range d.Intervals {
		if iv.State == s && iv.Start > now {
			return iv, true
		}
	}
	return Interval{}, false
}

// Stats summarizes a day
type Stats struct {
	AvailabilityPct  int `json:"availability_pct"`
	PresentMinutes   int `json:"present_minutes"`
	AbsentMinutes    int `json:"absent_minutes"`
	PresentIntervals int `json:"present_intervals"`
	AbsentIntervals  int `json:"absent_intervals"`
}

// Stats computes availability (nearest whole percent of DayMinutes) and interval counts
// a no-data schedule returns the zero Stats
func (d DaySchedule) Stats() Stats {
	var st Stats
	for _, iv := range d.Intervals {
		if iv.State == Present {
			st.PresentMinutes += iv.Duration()
			st.PresentIntervals++
		} else {
			st.AbsentMinutes += iv.Duration()
			st.AbsentIntervals++
		}
	}
	if d.HasData() {
		st.AvailabilityPct = int(math.Round(float64(st.PresentMinutes) * 100 / DayMinutes))
	}
	return st
}
