// Package outage derives power outage timetables from hourly schedule codes
// Pipeline
// 1 hourly codes "1".."24" expand into 48 half-hour slots
// 2 slots run-length compress into maximal present/absent intervals
// 3 point-in-time queries (current interval, remaining time, daily stats) run over the intervals
// Nothing here does I/O or holds state; every function is pure
package outage

import "strconv"

// Minute layout of a day
const (
	HoursPerDay = 24
	SlotsPerDay = 48
	SlotMinutes = 30
	DayMinutes  = SlotsPerDay * SlotMinutes
)

// State is the binary power state of a slot or interval
type State uint8

const (
	// Present means power is expected
	Present State = iota
	// Absent means a scheduled outage
	Absent
)

// String renders the state as used on the wire
func (s State) String() string {
	if s == Absent {
		return "absent"
	}
	return "present"
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Code is a raw hourly schedule code as published by the source document
type Code string

const (
	CodePresent           Code = "yes"
	CodeAbsent            Code = "no"
	CodeAbsentThenPresent Code = "first"
	CodePresentThenAbsent Code = "second"
)

// expansion is the single place where hourly codes turn into half-hour pairs
// anything not listed, including a missing hour, takes failOpen
var expansion = map[Code][2]State{
	CodePresent:           {Present, Present},
	CodeAbsent:            {Absent, Absent},
	CodeAbsentThenPresent: {Absent, Present},
	CodePresentThenAbsent: {Present, Absent},
}

// failOpen never fabricates an outage from ambiguous input
var failOpen = [2]State{Present, Present}

// Pair returns the two half-hour states an hourly code expands to
func (c Code) Pair() [2]State {
	if p, ok := expansion[c]; ok {
		return p
	}
	return failOpen
}

// Known reports whether the code is one of the four published values
func (c Code) Known() bool {
	_, ok := expansion[c]
	return ok
}

// Unknown lists the hours whose code is set but not a published value, ascending.
// Missing hours are not reported
func Unknown(hours map[string]string) []int {
	var out []int
	for h := 1; h <= HoursPerDay; h++ {
		if c, ok := hours[strconv.Itoa(h)]; ok && !Code(c).Known() {
			out = append(out, h)
		}
	}
	return out
}

// Slots is one day of half-hour states, index 0 is 00:00-00:30
type Slots [SlotsPerDay]State

// Expand turns an hour-string keyed mapping ("1".."24") into 48 slots
// missing, unknown and out-of-range entries are ignored in favor of the fail-open default
func Expand(hours map[string]string) Slots {
	var out Slots
	for h := 1; h <= HoursPerDay; h++ {
		p := Code(hours[strconv.Itoa(h)]).Pair()
		out[2*(h-1)] = p[0]
		out[2*(h-1)+1] = p[1]
	}
	return out
}

// Absent counts absent slots
func (s Slots) Absent() int {
	n := 0
	for _, v := range s {
		if v == Absent {
			n++
		}
	}
	return n
}
