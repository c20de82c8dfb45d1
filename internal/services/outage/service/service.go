// Package service owns the outage feed cache and builds schedule views from it
package service

import (
	"context"
	"sync"
	"time"

	"gridwatch/internal/adapters/outagefeed"
	"gridwatch/internal/core/calendar"
	"gridwatch/internal/core/outage"
	"gridwatch/internal/modkit/scope"
	"gridwatch/internal/platform/cache"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
	"gridwatch/internal/services/outage/domain"
)

// Feed is the outage document source
type Feed interface {
	Fetch(ctx context.Context) (outagefeed.Document, error)
}

// Config holds the group and cache settings
type Config struct {
	Group      string
	GroupLabel string
	StaleAfter time.Duration
}

// Service is the contract the transport and other modules use
type Service interface {
	Refresh(ctx context.Context) error
	Overview(ctx context.Context) domain.Overview
	Day(ctx context.Context, which, group string) (domain.Day, error)
	Groups(ctx context.Context) domain.Groups
	Subscribe(fn domain.Listener)
}

// Svc implements Service
type Svc struct {
	feed  Feed
	cache *cache.Cache[outagefeed.Document]
	clk   clock.Clock
	loc   *time.Location
	cfg   Config

	mu        sync.Mutex
	prev      *pair
	listeners []domain.Listener
}

type pair struct{ today, tomorrow outage.DaySchedule }

// New wires a service; obs may be nil
func New(feed Feed, clk clock.Clock, loc *time.Location, cfg Config, obs cache.Observer) *Svc {
	if feed == nil {
		panic("outage service requires a non nil Feed")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Svc{
		feed:  feed,
		cache: cache.New[outagefeed.Document]("outage", clk, cfg.StaleAfter, obs),
		clk:   clk,
		loc:   loc,
		cfg:   cfg,
	}
}

// Subscribe registers a listener for successful refreshes
func (s *Svc) Subscribe(fn domain.Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Refresh fetches the document and publishes an Update on success
// a failure keeps the previous document
func (s *Svc) Refresh(ctx context.Context) error {
	ctx = logger.WithFeed(ctx, "outage")
	trigger := scope.Trigger(ctx)

	snap, err := s.cache.Refresh(ctx, s.feed.Fetch)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("trigger", trigger).Bool("retryable", perr.Retryable(err)).Msg("outage refresh failed")
		return err
	}
	logger.C(ctx).Debug().Int("bytes", snap.Value.Size()).Str("trigger", trigger).Msg("outage refreshed")
	s.checkCodes(ctx, snap.Value)
	s.publish(snap.Value, trigger)
	return nil
}

// checkCodes warns about hour codes the expansion does not know; they read as power present
func (s *Svc) checkCodes(ctx context.Context, doc outagefeed.Document) {
	now := s.clk.Now()
	for offset := 0; offset < 2; offset++ {
		day := clock.Midnight(now, s.loc, offset)
		hours, ok := doc.Hours(day.Unix(), s.cfg.Group)
		if !ok {
			continue
		}
		if bad := outage.Unknown(hours); len(bad) > 0 {
			logger.C(ctx).Warn().Str("group", s.cfg.Group).Time("day", day).Ints("hours", bad).Msg("unknown outage codes read as power present")
		}
	}
}

func (s *Svc) publish(doc outagefeed.Document, trigger string) {
	now := s.clk.Now()
	today := s.build(doc, true, clock.Midnight(now, s.loc, 0), s.cfg.Group)
	tomorrow := s.build(doc, true, clock.Midnight(now, s.loc, 1), s.cfg.Group)

	s.mu.Lock()
	prev := s.prev
	s.prev = &pair{today: today, tomorrow: tomorrow}
	ls := append([]domain.Listener(nil), s.listeners...)
	s.mu.Unlock()

	u := domain.Update{
		At:           now,
		Group:        s.cfg.Group,
		GroupLabel:   s.cfg.GroupLabel,
		Today:        today,
		Tomorrow:     tomorrow,
		PrevToday:    outage.Empty(today.Day, s.cfg.Group),
		PrevTomorrow: outage.Empty(tomorrow.Day, s.cfg.Group),
		First:        prev == nil,
		Trigger:      trigger,
	}
	// after midnight yesterday's "tomorrow" is today's baseline
	if prev != nil {
		for _, p := range []outage.DaySchedule{prev.today, prev.tomorrow} {
			switch {
			case p.Day.Equal(today.Day):
				u.PrevToday = p
			case p.Day.Equal(tomorrow.Day):
				u.PrevTomorrow = p
			}
		}
	}
	for _, fn := range ls {
		fn(u)
	}
}

// snapshot returns the cached document, fetching once if nothing was ever attempted
func (s *Svc) snapshot(ctx context.Context) cache.Snapshot[outagefeed.Document] {
	snap := s.cache.Snapshot()
	if !snap.OK && snap.AttemptedAt.IsZero() {
		_ = s.Refresh(ctx)
		snap = s.cache.Snapshot()
	}
	return snap
}

func (s *Svc) build(doc outagefeed.Document, ok bool, day time.Time, group string) outage.DaySchedule {
	if !ok {
		return outage.Empty(day, group)
	}
	hours, found := doc.Hours(day.Unix(), group)
	if !found {
		return outage.Empty(day, group)
	}
	return outage.Build(day, group, hours)
}

func feedOf[T any](snap cache.Snapshot[T]) domain.Feed {
	f := domain.Feed{FetchedAt: clock.Ptr(snap.FetchedAt), Stale: snap.Stale}
	switch {
	case !snap.OK:
		f.Error = domain.MsgLoadFailed
	case snap.Err != nil || snap.Stale:
		f.Error = domain.MsgCached
	}
	return f
}

// Overview renders today, tomorrow, the current interval and the stitched countdown
func (s *Svc) Overview(ctx context.Context) domain.Overview {
	snap := s.snapshot(ctx)
	now := s.clk.Now()
	minute := clock.MinuteOfDay(now, s.loc)

	today := s.build(snap.Value, snap.OK, clock.Midnight(now, s.loc, 0), s.cfg.Group)
	tomorrow := s.build(snap.Value, snap.OK, clock.Midnight(now, s.loc, 1), s.cfg.Group)

	ov := domain.Overview{
		Group:             s.cfg.Group,
		GroupLabel:        s.cfg.GroupLabel,
		Timezone:          s.loc.String(),
		Now:               now.In(s.loc),
		NowMinute:         minute,
		Today:             s.view(today),
		Tomorrow:          s.view(tomorrow),
		ScheduledTomorrow: tomorrow.Scheduled(),
		Feed:              feedOf(snap),
	}
	if iv, idx, ok := today.Current(minute); ok {
		ov.Current = &domain.Current{
			Interval: iv,
			Index:    idx,
			HasPower: iv.State == outage.Present,
			Status:   statusText(iv.State),
		}
	}
	ov.Countdown = countdown(outage.RemainingAcross(today, tomorrow, minute))
	return ov
}

func statusText(st outage.State) string {
	if st == outage.Present {
		return "СВІТЛО Є"
	}
	return "СВІТЛА НЕМАЄ"
}

func countdown(r outage.Remaining) domain.Countdown {
	c := domain.Countdown{Remaining: r, Text: outage.FormatRemaining(r)}
	if r.Until == outage.Absent {
		c.Title = "До вимкнення світла"
	} else {
		c.Title = "До включення світла"
	}
	return c
}

func (s *Svc) view(d outage.DaySchedule) domain.Day {
	day := d.Day.In(s.loc)
	v := domain.Day{
		Date:      day.Format(time.DateOnly),
		DayUnix:   day.Unix(),
		Label:     calendar.Label(day),
		Weekday:   calendar.Weekday(day.Weekday()),
		Group:     d.Group,
		HasData:   d.HasData(),
		HasOutage: d.HasOutage(),
		Scheduled: d.Scheduled(),
		Intervals: d.Intervals,
		Stats:     d.Stats(),
	}
	if !v.HasData {
		v.Note = "Дані на " + v.Label + " для групи " + s.label(d.Group) + " відсутні."
	}
	return v
}

// label renders GPV5.2 as 5.2
func (s *Svc) label(group string) string {
	if group == s.cfg.Group && s.cfg.GroupLabel != "" {
		return s.cfg.GroupLabel
	}
	if len(group) > 3 && group[:3] == "GPV" {
		return group[3:]
	}
	return group
}

// Day renders one day; which is today, tomorrow or YYYY-MM-DD
// group defaults to the configured one and may omit the GPV prefix
func (s *Svc) Day(ctx context.Context, which, group string) (domain.Day, error) {
	now := s.clk.Now()
	var day time.Time
	switch which {
	case "", "today":
		day = clock.Midnight(now, s.loc, 0)
	case "tomorrow":
		day = clock.Midnight(now, s.loc, 1)
	default:
		t, err := time.ParseInLocation(time.DateOnly, which, s.loc)
		if err != nil {
			return domain.Day{}, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "day must be today, tomorrow or YYYY-MM-DD"), "day")
		}
		day = clock.Midnight(t, s.loc, 0)
	}
	group = normalizeGroup(group, s.cfg.Group)

	snap := s.snapshot(ctx)
	if !snap.OK {
		return domain.Day{}, perr.Unavailablef("%s", domain.MsgLoadFailed)
	}
	return s.view(s.build(snap.Value, true, day, group)), nil
}

func normalizeGroup(group, def string) string {
	switch {
	case group == "":
		return def
	case len(group) >= 3 && group[:3] == "GPV":
		return group
	default:
		return "GPV" + group
	}
}

// Groups lists the groups published for today
func (s *Svc) Groups(ctx context.Context) domain.Groups {
	snap := s.snapshot(ctx)
	day := clock.Midnight(s.clk.Now(), s.loc, 0)
	out := domain.Groups{Date: day.Format(time.DateOnly), Groups: []string{}, Feed: feedOf(snap)}
	if snap.OK {
		out.Groups = append(out.Groups, snap.Value.Groups(day.Unix())...)
	}
	return out
}

// Ready is nil once the feed has been loaded
func (s *Svc) Ready() error { return s.cache.Ready() }
