// Package domain holds the outage view types shared by service, transport and notifier
package domain

import (
	"time"

	"gridwatch/internal/core/outage"
)

// Messages shown next to the schedule when the feed misbehaves
const (
	MsgLoadFailed = "Не вдалося завантажити дані графіку."
	MsgCached     = "Показано останні збережені дані. Можливі неточності."
)

// Day is one rendered day of one group
// HasData=false means the source published nothing, never "power all day"
type Day struct {
	Date      string            `json:"date"      example:"2026-10-16"`
	DayUnix   int64             `json:"day_unix"  example:"1792098000"`
	Label     string            `json:"label"     example:"16 жовтня"`
	Weekday   string            `json:"weekday"   example:"пʼятниця"`
	Group     string            `json:"group"     example:"GPV5.2"`
	HasData   bool              `json:"has_data"`
	HasOutage bool              `json:"has_outage"`
	Scheduled bool              `json:"scheduled"`
	Intervals []outage.Interval `json:"intervals"`
	Stats     outage.Stats      `json:"stats"`
	// Note is set for days without data
	Note string `json:"note,omitempty"`
}

// Current is the interval now falls into
type Current struct {
	Interval outage.Interval `json:"interval"`
	Index    int             `json:"index"`
	HasPower bool            `json:"has_power"`
	// Status is the banner text, "СВІТЛО Є" or "СВІТЛА НЕМАЄ"
	Status string `json:"status"`
}

// Countdown is the stitched time left in the current state
type Countdown struct {
	outage.Remaining
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Feed describes the cache behind a view
type Feed struct {
	FetchedAt *time.Time `json:"fetched_at"`
	Stale     bool       `json:"stale"`
	Error     string     `json:"error,omitempty"`
}

// Overview is what the dashboard polls
type Overview struct {
	Group             string    `json:"group"       example:"GPV5.2"`
	GroupLabel        string    `json:"group_label" example:"5.2"`
	Timezone          string    `json:"timezone"    example:"Europe/Kyiv"`
	Now               time.Time `json:"now"`
	NowMinute         int       `json:"now_minute"`
	Today             Day       `json:"today"`
	Tomorrow          Day       `json:"tomorrow"`
	Current           *Current  `json:"current"`
	Countdown         Countdown `json:"countdown"`
	ScheduledTomorrow bool      `json:"scheduled_tomorrow"`
	Feed
}

// Groups lists the groups a day carries
type Groups struct {
	Date   string   `json:"date"`
	Groups []string `json:"groups"`
	Feed
}

// Update is published after every successful refresh
// Prev* hold the schedules of the previous refresh, First marks the first one since start
type Update struct {
	At           time.Time
	Group        string
	GroupLabel   string
	Today        outage.DaySchedule
	Tomorrow     outage.DaySchedule
	PrevToday    outage.DaySchedule
	PrevTomorrow outage.DaySchedule
	First        bool
	Trigger      string
}

// Listener receives updates synchronously on the refreshing goroutine
type Listener func(Update)
