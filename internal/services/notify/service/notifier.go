package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gridwatch/internal/adapters/pushserver"
	"gridwatch/internal/core/calendar"
	"gridwatch/internal/core/outage"
	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/logger"
	"gridwatch/internal/services/notify/domain"
	odomain "gridwatch/internal/services/outage/domain"
)

// sentTTL bounds how long delivered event keys are remembered
const sentTTL = 48 * time.Hour

// NotifierConfig controls the outage notifier
type NotifierConfig struct {
	// Lead is how early an upcoming outage is announced
	Lead time.Duration
	// Label is the group name shown in messages, e.g. "5.2"
	Label string
}

// Notifier turns outage updates into pushes
//   - blackout_30min when the next outage starts within Lead
//   - blackout_change when today's intervals change
//   - blackout_tomorrow when tomorrow gets a real plan
//
// each event key is delivered at most once
type Notifier struct {
	svc *Svc
	cfg NotifierConfig

	updates chan odomain.Update
	last    *odomain.Update
	sent    map[string]time.Time
}

type event struct {
	key string
	msg pushserver.Message
}

// NewNotifier builds a notifier delivering through svc
func NewNotifier(svc *Svc, cfg NotifierConfig) *Notifier {
	if cfg.Lead <= 0 {
		cfg.Lead = 30 * time.Minute
	}
	return &Notifier{
		svc:     svc,
		cfg:     cfg,
		updates: make(chan odomain.Update, 1),
		sent:    map[string]time.Time{},
	}
}

// Listen queues u for Run; it never blocks and only the newest update is kept
func (n *Notifier) Listen(u odomain.Update) {
	for {
		select {
		case n.updates <- u:
			return
		default:
		}
		select {
		case <-n.updates:
		default:
		}
	}
}

// Run processes updates and re-checks the lead window every tick until ctx is done
func (n *Notifier) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		tick = time.Minute
	}
	ctx = logger.WithFeed(ctx, "notify")
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-n.updates:
			n.last = &u
			n.process(ctx, u, true)
		case <-t.C:
			if n.last != nil {
				n.process(ctx, *n.last, false)
			}
		}
	}
}

// process delivers the events of u not sent yet; fresh marks a new refresh rather than a tick
func (n *Notifier) process(ctx context.Context, u odomain.Update, fresh bool) int {
	now := n.svc.clk.Now()
	for k, at := range n.sent {
		if now.Sub(at) > sentTTL {
			delete(n.sent, k)
		}
	}
	delivered := 0
	for _, ev := range n.events(u, now, fresh) {
		if _, dup := n.sent[ev.key]; dup {
			continue
		}
		if _, err := n.svc.deliver(ctx, ev.msg); err != nil {
			// retried on the next update or tick
			continue
		}
		n.sent[ev.key] = now
		delivered++
	}
	return delivered
}

func (n *Notifier) events(u odomain.Update, now time.Time, fresh bool) []event {
	var out []event
	loc := n.svc.loc
	today, tomorrow := u.Today, u.Tomorrow
	switch mid := clock.Midnight(now, loc, 0); {
	case today.Day.Equal(mid):
	case tomorrow.Day.Equal(mid):
		// past midnight since the last refresh
		today, tomorrow = tomorrow, outage.Empty(clock.Midnight(now, loc, 1), u.Group)
	default:
		today, tomorrow = outage.Empty(mid, u.Group), outage.Empty(clock.Midnight(now, loc, 1), u.Group)
	}

	if iv, day, wait, ok := upcoming(today, tomorrow, clock.MinuteOfDay(now, loc)); ok && wait <= int(n.cfg.Lead/time.Minute) {
		out = append(out, event{
			key: fmt.Sprintf("%s|%s|%s", domain.KindSoon, day.Day.Format(time.DateOnly), iv.StartClock()),
			msg: pushserver.Message{
				Type:  domain.KindSoon,
				Title: fmt.Sprintf("⚡ Відключення через %d хв", wait),
				Body:  fmt.Sprintf("Група %s: світла не буде з %s до %s.", n.cfg.Label, iv.StartClock(), iv.EndClock()),
			},
		})
	}
	if !fresh || u.First {
		return out
	}

	if u.Today.HasData() && u.PrevToday.HasData() && !u.Today.Equal(u.PrevToday) {
		plan := absences(u.Today)
		out = append(out, event{
			key: fmt.Sprintf("%s|%s|%s", domain.KindChange, u.Today.Day.Format(time.DateOnly), plan),
			msg: pushserver.Message{
				Type:  domain.KindChange,
				Title: "🔄 Графік відключень змінено",
				Body:  fmt.Sprintf("Група %s, сьогодні: %s.", n.cfg.Label, plan),
			},
		})
	}
	if u.Tomorrow.Scheduled() && !u.PrevTomorrow.Scheduled() {
		out = append(out, event{
			key: fmt.Sprintf("%s|%s", domain.KindTomorrow, u.Tomorrow.Day.Format(time.DateOnly)),
			msg: pushserver.Message{
				Type:  domain.KindTomorrow,
				Title: "📅 Графік на завтра",
				Body:  fmt.Sprintf("Група %s, %s: %s.", n.cfg.Label, calendar.Label(u.Tomorrow.Day), absences(u.Tomorrow)),
			},
		})
	}
	return out
}

// upcoming finds the next outage after now while power is on, looking into tomorrow
// when today's last interval has power; wait is in minutes
func upcoming(today, tomorrow outage.DaySchedule, now int) (outage.Interval, outage.DaySchedule, int, bool) {
	cur, _, ok := today.Current(now)
	if !ok || cur.State == outage.Absent {
		return outage.Interval{}, today, 0, false
	}
	if iv, ok := today.NextAbsent(now); ok {
		return iv, today, iv.Start - now, true
	}
	if !tomorrow.HasData() {
		return outage.Interval{}, today, 0, false
	}
	toMidnight := outage.DayMinutes - now
	if first := tomorrow.Intervals[0]; first.State == outage.Absent {
		return first, tomorrow, toMidnight, true
	}
	if iv, ok := tomorrow.NextAbsent(0); ok {
		return iv, tomorrow, toMidnight + iv.Start, true
	}
	return outage.Interval{}, today, 0, false
}

// absences renders the outages of d as "10:00-12:00, 18:00-20:00"
func absences(d outage.DaySchedule) string {
	var parts []string
	for _, iv := range d.Intervals {
		if iv.State == outage.Absent {
			parts = append(parts, iv.StartClock()+"-"+iv.EndClock())
		}
	}
	if len(parts) == 0 {
		return "відключень не заплановано"
	}
	return "відключення " + strings.Join(parts, ", ")
}
