package outage

import (
	"strconv"
	"strings"
)

// Remaining is the time left in the current state
// Known is false when the answer cannot be determined from the data at hand
type Remaining struct {
	Minutes int  `json:"minutes"`
	Known   bool `json:"known"`
	// Until is the state the countdown leads to (Absent means "until the outage starts")
	Until State `json:"until"`
	// CrossesMidnight is set when the countdown was resolved using the next day
	CrossesMidnight bool `json:"crosses_midnight"`
}

// Remaining answers "how long until the state changes" for now in minutes since local midnight
//   - Present: until the current interval ends (an outage, or the end of the day when none follows)
//   - Absent: until the next Present interval starting after now; unknown when the outage runs past midnight
//   - no current interval: unknown
func (d DaySchedule) Remaining(now int) Remaining {
	cur, _, ok := d.Current(now)
	if !ok {
		return Remaining{}
	}
	if cur.State == Present {
		return Remaining{Minutes: max(cur.End-now, 0), Known: true, Until: Absent}
	}
	next, ok := d.NextPresent(now)
	if !ok {
		return Remaining{Until: Present}
	}
	return Remaining{Minutes: max(next.Start-now, 0), Known: true, Until: Present}
}

// RemainingAcross resolves the countdown over the midnight boundary using tomorrow
// it only differs from today.Remaining when today's current interval runs to 24:00
// and tomorrow has data
func RemainingAcross(today, tomorrow DaySchedule, now int) Remaining {
	r := today.Remaining(now)
	cur, _, ok := today.Current(now)
	if !ok || cur.End != DayMinutes || !tomorrow.HasData() {
		return r
	}
	toMidnight := DayMinutes - now
	first := tomorrow.Intervals[0]

	switch cur.State {
	case Absent:
		if first.State == Present {
			return Remaining{Minutes: toMidnight, Known: true, Until: Present, CrossesMidnight: true}
		}
		// tomorrow opens with the outage still running; Compress guarantees a Present interval follows if any
		if next, ok := tomorrow.NextPresent(first.Start); ok {
			return Remaining{Minutes: toMidnight + next.Start, Known: true, Until: Present, CrossesMidnight: true}
		}
		return r
	default:
		if first.State == Absent {
			return r
		}
		if next, ok := tomorrow.NextAbsent(first.Start); ok {
			return Remaining{Minutes: toMidnight + next.Start, Known: true, Until: Absent, CrossesMidnight: true}
		}
		// no outage tomorrow either; keep today's answer (end of known schedule)
		return r
	}
}

// FormatRemaining renders a countdown in Ukrainian, e.g. "2 год. 30 хв."
// unknown renders as "Немає даних"; under a minute as "менше хвилини"
func FormatRemaining(r Remaining) string {
	if !r.Known {
		return "Немає даних"
	}
	h, m := r.Minutes/60, r.Minutes%60
	parts := make([]string, 0, 2)
	if h > 0 {
		parts = append(parts, strconv.Itoa(h)+" год.")
	}
	if m > 0 {
		parts = append(parts, strconv.Itoa(m)+" хв.")
	}
	if len(parts) == 0 {
		return "менше хвилини"
	}
	return strings.Join(parts, " ")
}
