package outage

import (
	"encoding/json"
	"fmt"
)

// Interval is a maximal run of same-state slots over [Start, End) minutes
type Interval struct {
	Start int
	End   int
	State State
}

// Duration in minutes
func (iv Interval) Duration() int { return iv.End - iv.Start }

// Contains reports whether minute m falls in [Start, End)
func (iv Interval) Contains(m int) bool { return iv.Start <= m && m < iv.End }

// StartClock renders Start as "HH:MM"
func (iv Interval) StartClock() string { return Clock(iv.Start) }

// EndClock renders End as "HH:MM"; the end of day is "24:00"
func (iv Interval) EndClock() string { return Clock(iv.End) }

// String renders "HH:MM-HH:MM state"
func (iv Interval) String() string {
	return iv.StartClock() + "-" + iv.EndClock() + " " + iv.State.String()
}

type intervalWire struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	State        State  `json:"state"`
	Minutes      int    `json:"minutes"`
}

// MarshalJSON carries both the clock strings and the raw minute offsets
func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(intervalWire{
		Start:        iv.StartClock(),
		End:          iv.EndClock(),
		StartMinutes: iv.Start,
		EndMinutes:   iv.End,
		State:        iv.State,
		Minutes:      iv.Duration(),
	})
}

// Clock renders minutes since local midnight as zero-padded "HH:MM"
// 1440 renders as "24:00" rather than wrapping to "00:00"
func Clock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Compress run-length encodes slots into maximal intervals
// output is never empty, contiguous, and covers [0, DayMinutes)
func Compress(s Slots) []Interval {
	out := make([]Interval, 0, 4)
	open := 0
	for i := 1; i < SlotsPerDay; i++ {
		if s[i] != s[open] {
			out = append(out, Interval{Start: open * SlotMinutes, End: i * SlotMinutes, State: s[open]})
			open = i
		}
	}
	return append(out, Interval{Start: open * SlotMinutes, End: DayMinutes, State: s[open]})
}

// Explode re-expands intervals into slots; the inverse of Compress for well-formed input
func Explode(ivs []Interval) Slots {
	var out Slots
	for _, iv := range ivs {
		for m := iv.Start; m < iv.End && m < DayMinutes; m += SlotMinutes {
			out[m/SlotMinutes] = iv.State
		}
	}
	return out
}
