package service

import (
	"context"
	"testing"
	"time"

	"gridwatch/internal/core/outage"
	"gridwatch/internal/platform/clock"
	"gridwatch/internal/services/notify/domain"
	odomain "gridwatch/internal/services/outage/domain"
)

var (
	day1 = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
)

func notifier(p *fakePusher, at time.Time) (*Notifier, *clock.Fixed) {
	clk := clock.NewFixed(at)
	s := New(p, clk, time.UTC, Config{}, nil)
	return NewNotifier(s, NotifierConfig{Lead: 30 * time.Minute, Label: "5.2"}), clk
}

func update(today, tomorrow map[string]string) odomain.Update {
	return odomain.Update{
		Group:        "GPV5.2",
		Today:        outage.Build(day1, "GPV5.2", today),
		Tomorrow:     outage.Build(day2, "GPV5.2", tomorrow),
		PrevToday:    outage.Build(day1, "GPV5.2", today),
		PrevTomorrow: outage.Build(day2, "GPV5.2", tomorrow),
	}
}

func TestNotifier_SoonOncePerOutage(t *testing.T) {
	p := &fakePusher{}
	n, clk := notifier(p, day1.Add(9*time.Hour+40*time.Minute))
	u := update(map[string]string{"11": "no"}, nil)

	if got := n.process(context.Background(), u, true); got != 1 {
		t.Fatalf("delivered %d, want 1", got)
	}
	m := p.sent[0]
	if m.Type != domain.KindSoon || m.Title != "⚡ Відключення через 20 хв" || m.Body != "Група 5.2: світла не буде з 10:00 до 11:00." {
		t.Fatalf("message = %+v", m)
	}

	clk.Advance(5 * time.Minute)
	if got := n.process(context.Background(), u, false); got != 0 {
		t.Fatalf("repeat delivered %d", got)
	}
}

func TestNotifier_SoonOutsideLead(t *testing.T) {
	p := &fakePusher{}
	n, _ := notifier(p, day1.Add(9*time.Hour))
	if got := n.process(context.Background(), update(map[string]string{"11": "no"}, nil), true); got != 0 {
		t.Fatalf("delivered %d, want 0", got)
	}
}

func TestNotifier_SoonSkippedDuringOutage(t *testing.T) {
	p := &fakePusher{}
	n, _ := notifier(p, day1.Add(10*time.Hour+10*time.Minute))
	u := update(map[string]string{"11": "no", "12": "yes", "13": "second"}, nil)
	if got := n.process(context.Background(), u, false); got != 0 {
		t.Fatalf("delivered %d, want 0", got)
	}
}

func TestNotifier_SoonAcrossMidnight(t *testing.T) {
	p := &fakePusher{}
	n, _ := notifier(p, day1.Add(23*time.Hour+50*time.Minute))
	u := update(map[string]string{}, map[string]string{"1": "no"})

	if got := n.process(context.Background(), u, false); got != 1 {
		t.Fatalf("delivered %d, want 1", got)
	}
	if p.sent[0].Title != "⚡ Відключення через 10 хв" || p.sent[0].Body != "Група 5.2: світла не буде з 00:00 до 01:00." {
		t.Fatalf("message = %+v", p.sent[0])
	}
}

func TestNotifier_UsesTomorrowAfterMidnight(t *testing.T) {
	p := &fakePusher{}
	n, _ := notifier(p, day2.Add(40*time.Minute))
	u := update(map[string]string{}, map[string]string{"2": "no"})

	if got := n.process(context.Background(), u, false); got != 1 {
		t.Fatalf("delivered %d, want 1", got)
	}
	if p.sent[0].Title != "⚡ Відключення через 20 хв" {
		t.Fatalf("message = %+v", p.sent[0])
	}
}

func TestNotifier_ChangeAndTomorrow(t *testing.T) {
	p := &fakePusher{}
	n, _ := notifier(p, day1.Add(5*time.Hour))
	u := update(map[string]string{"11": "no", "19": "first"}, map[string]string{"1": "no"})
	u.PrevToday = outage.Build(day1, "GPV5.2", map[string]string{"11": "no"})
	u.PrevTomorrow = outage.Empty(day2, "GPV5.2")

	if got := n.process(context.Background(), u, true); got != 2 {
		t.Fatalf("delivered %d, want 2: %+v", got, p.sent)
	}
	if p.sent[0].Type != domain.KindChange || p.sent[0].Body != "Група 5.2, сьогодні: відключення 10:00-11:00, 18:00-18:30." {
		t.Fatalf("change = %+v", p.sent[0])
	}
	if p.sent[1].Type != domain.KindTomorrow || p.sent[1].Body != "Група 5.2, 17 жовтня: відключення 00:00-01:00." {
		t.Fatalf("tomorrow = %+v", p.sent[1])
	}
	if got := n.process(context.Background(), u, true); got != 0 {
		t.Fatalf("repeat delivered %d", got)
	}
}

func TestNotifier_FirstUpdateOnlyAnnouncesSoon(t *testing.T) {
	p := &fakePusher{}
	n, _ := notifier(p, day1.Add(5*time.Hour))
	u := update(map[string]string{"11": "no"}, map[string]string{"1": "no"})
	u.PrevToday = outage.Empty(day1, "GPV5.2")
	u.PrevTomorrow = outage.Empty(day2, "GPV5.2")
	u.First = true

	if got := n.process(context.Background(), u, true); got != 0 {
		t.Fatalf("delivered %d, want 0: %+v", got, p.sent)
	}
}

func TestNotifier_AllDayPowerIsNotATomorrowPlan(t *testing.T) {
	p := &fakePusher{}
	n, _ := notifier(p, day1.Add(5*time.Hour))
	u := update(nil, map[string]string{"1": "yes"})
	u.PrevTomorrow = outage.Empty(day2, "GPV5.2")

	if got := n.process(context.Background(), u, true); got != 0 {
		t.Fatalf("delivered %d, want 0", got)
	}
}

func TestNotifier_FailedDeliveryRetried(t *testing.T) {
	p := &fakePusher{err: context.DeadlineExceeded}
	n, _ := notifier(p, day1.Add(9*time.Hour+40*time.Minute))
	u := update(map[string]string{"11": "no"}, nil)

	if got := n.process(context.Background(), u, true); got != 0 {
		t.Fatalf("delivered %d, want 0", got)
	}
	p.err = nil
	if got := n.process(context.Background(), u, false); got != 1 {
		t.Fatalf("delivered %d, want 1", got)
	}
}

func TestNotifier_RunDeliversListenedUpdate(t *testing.T) {
	p := &fakePusher{notify: make(chan struct{}, 1)}
	n, _ := notifier(p, day1.Add(9*time.Hour+40*time.Minute))
	n.Listen(update(map[string]string{"10": "yes"}, nil))
	n.Listen(update(map[string]string{"11": "no"}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx, time.Hour) }()

	select {
	case <-p.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("no push delivered")
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if len(p.sent) != 1 {
		t.Fatalf("sent %d, want 1", len(p.sent))
	}
}
