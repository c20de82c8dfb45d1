package clock

import (
	"testing"
	"time"
)

func kyiv(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestMidnight_UsesLocalDay(t *testing.T) {
	loc := kyiv(t)
	// 22:30 UTC on Oct 15 is already Oct 16 in Kyiv (UTC+3)
	now := time.Date(2026, 10, 15, 22, 30, 0, 0, time.UTC)
	got := Midnight(now, loc, 0)
	want := time.Date(2026, 10, 16, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Unix() != 1792098000 {
		t.Fatalf("unix = %d, want 1792098000", got.Unix())
	}
	if tm := Midnight(now, loc, 1); tm.Sub(got) != 24*time.Hour {
		t.Fatalf("tomorrow offset = %v", tm.Sub(got))
	}
}

func TestMidnight_DSTDayIsTwentyFiveHours(t *testing.T) {
	loc := kyiv(t)
	// clocks go back on the last Sunday of October
	now := time.Date(2026, 10, 25, 12, 0, 0, 0, loc)
	today := Midnight(now, loc, 0)
	tomorrow := Midnight(now, loc, 1)
	if d := tomorrow.Sub(today); d != 25*time.Hour {
		t.Fatalf("day length = %v, want 25h", d)
	}
}

func TestMinuteOfDay(t *testing.T) {
	loc := kyiv(t)
	now := time.Date(2026, 10, 16, 2, 30, 0, 0, time.UTC) // 05:30 Kyiv
	if got := MinuteOfDay(now, loc); got != 330 {
		t.Fatalf("got %d, want 330", got)
	}
}

func TestFixed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("got %v", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Set did not apply")
	}
}

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero time must be nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("Ptr(now) mismatch")
	}
}
