package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gridwatch/internal/platform/clock"
)

type recObs struct {
	mu   sync.Mutex
	errs []error
}

func (r *recObs) Refreshed(_ string, err error, _ time.Time) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

var t0 = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func TestSnapshot_EmptyIsNotStale(t *testing.T) {
	c := New[int]("outage", clock.NewFixed(t0), 10*time.Minute, nil)
	s := c.Snapshot()
	if s.OK || s.Stale || s.Err != nil {
		t.Fatalf("empty snapshot = %+v", s)
	}
}

func TestStaleness(t *testing.T) {
	clk := clock.NewFixed(t0)
	c := New[string]("outage", clk, 10*time.Minute, nil)
	c.Set("v1")

	clk.Advance(10 * time.Minute)
	if s := c.Snapshot(); s.Stale {
		t.Fatalf("exactly at threshold must not be stale")
	}
	clk.Advance(time.Second)
	s := c.Snapshot()
	if !s.Stale || s.Age != 10*time.Minute+time.Second {
		t.Fatalf("got stale=%v age=%v", s.Stale, s.Age)
	}
	if !s.FetchedAt.Equal(t0) {
		t.Fatalf("fetchedAt = %v", s.FetchedAt)
	}
}

func TestFail_KeepsLastGood(t *testing.T) {
	clk := clock.NewFixed(t0)
	obs := &recObs{}
	c := New[string]("alerts", clk, time.Minute, obs)
	c.Set("good")
	clk.Advance(30 * time.Second)
	boom := errors.New("boom")
	c.Fail(boom)

	s := c.Snapshot()
	if !s.OK || s.Value != "good" {
		t.Fatalf("value lost: %+v", s)
	}
	if !errors.Is(s.Err, boom) {
		t.Fatalf("err = %v, want boom", s.Err)
	}
	if !s.AttemptedAt.Equal(t0.Add(30*time.Second)) || !s.FetchedAt.Equal(t0) {
		t.Fatalf("timestamps: attempted=%v fetched=%v", s.AttemptedAt, s.FetchedAt)
	}

	c.Set("better")
	if s := c.Snapshot(); s.Err != nil || s.Value != "better" {
		t.Fatalf("success must clear error: %+v", s)
	}
	if len(obs.errs) != 3 || obs.errs[1] == nil || obs.errs[2] != nil {
		t.Fatalf("observer saw %v", obs.errs)
	}
}

func TestGet_ServesFreshWithoutFetching(t *testing.T) {
	clk := clock.NewFixed(t0)
	c := New[int]("weather", clk, 0, nil)
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) { return int(calls.Add(1)), nil }

	if s := c.Get(context.Background(), time.Minute, fetch); s.Value != 1 {
		t.Fatalf("first get = %d", s.Value)
	}
	clk.Advance(59 * time.Second)
	if s := c.Get(context.Background(), time.Minute, fetch); s.Value != 1 {
		t.Fatalf("cached get = %d", s.Value)
	}
	clk.Advance(time.Second)
	if s := c.Get(context.Background(), time.Minute, fetch); s.Value != 2 {
		t.Fatalf("expired get = %d", s.Value)
	}
	if s := c.Snapshot(); s.Stale {
		t.Fatalf("staleAfter=0 must disable staleness")
	}
}

func TestRefresh_ErrorSurfaces(t *testing.T) {
	c := New[int]("inverter", clock.NewFixed(t0), time.Minute, nil)
	_, err := c.Refresh(context.Background(), func(context.Context) (int, error) { return 0, errors.New("down") })
	if err == nil {
		t.Fatalf("expected error")
	}
	s := c.Get(context.Background(), time.Minute, func(context.Context) (int, error) { return 0, errors.New("still down") })
	if s.OK || s.Err == nil || s.Err.Error() != "still down" {
		t.Fatalf("snapshot = %+v", s)
	}
}

func TestRefresh_CollapsesConcurrentCalls(t *testing.T) {
	c := New[int]("outage", clock.NewFixed(t0), 0, nil)
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	started := make(chan struct{}, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			_, _ = c.Refresh(context.Background(), fetch)
		}()
	}
	for i := 0; i < 8; i++ {
		<-started
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n < 1 || n > 8 {
		t.Fatalf("calls = %d", n)
	}
	if s := c.Snapshot(); s.Value != 7 {
		t.Fatalf("value = %d", s.Value)
	}
}

func TestRefresh_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	c := New[int]("inverter", clock.NewFixed(t0), 0, nil)
	c.Set(1)

	release := make(chan struct{})
	entered := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		close(entered)
		select {
		case <-release:
			return 2, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	// a dashboard request starts the fetch and then goes away
	reqCtx, cancel := context.WithCancel(context.Background())
	reqErr := make(chan error, 1)
	go func() {
		_, err := c.Refresh(reqCtx, fetch)
		reqErr <- err
	}()
	<-entered

	// the poller joins the same in-flight fetch
	pollDone := make(chan error, 1)
	go func() {
		_, err := c.Refresh(context.Background(), func(context.Context) (int, error) { return 2, nil })
		pollDone <- err
	}()

	cancel()
	if err := <-reqErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("request caller got %v, want context.Canceled", err)
	}
	if s := c.Snapshot(); s.Err != nil {
		t.Fatalf("cancelled caller recorded a failure: %v", s.Err)
	}

	close(release)
	if err := <-pollDone; err != nil {
		t.Fatalf("poller got %v, want nil", err)
	}
	if s := c.Snapshot(); s.Value != 2 || s.Err != nil {
		t.Fatalf("snapshot value=%d err=%v, want 2 <nil>", s.Value, s.Err)
	}
}

func TestRefresh_KeepsCallerDeadline(t *testing.T) {
	c := New[int]("weather", clock.NewFixed(t0), 0, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	want, _ := ctx.Deadline()
	_, err := c.Refresh(ctx, func(fctx context.Context) (int, error) {
		if dl, ok := fctx.Deadline(); !ok || !dl.Equal(want) {
			t.Errorf("fetch deadline = %v %v, want %v", dl, ok, want)
		}
		return 1, nil
	})
	if err != nil {
		t.Fatalf("got %v", err)
	}
}

func TestReady(t *testing.T) {
	c := New[int]("weather", clock.NewFixed(t0), 0, nil)
	if err := c.Ready(); err == nil {
		t.Fatal("empty cache must not be ready")
	}
	boom := errors.New("boom")
	c.Fail(boom)
	if err := c.Ready(); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
	c.Set(1)
	c.Fail(boom)
	if err := c.Ready(); err != nil {
		t.Fatalf("got %v, want nil once a value is held", err)
	}
}
