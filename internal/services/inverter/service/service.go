// Package service polls the inverter bridge and derives power flows
package service

import (
	"context"
	"time"

	"gridwatch/internal/adapters/inverterapi"
	"gridwatch/internal/core/inverter"
	"gridwatch/internal/modkit/scope"
	"gridwatch/internal/platform/cache"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
	"gridwatch/internal/services/inverter/domain"
)

// Source is the telemetry provider
type Source interface {
	Configured() bool
	Fetch(ctx context.Context) (inverterapi.Sample, error)
}

// Config holds battery size and freshness settings
type Config struct {
	BatteryWh float64
	// MaxAge is how old a sample may be before a view fetches a new one
	MaxAge     time.Duration
	StaleAfter time.Duration
}

// Service is the contract the transport uses
type Service interface {
	Refresh(ctx context.Context) error
	Telemetry(ctx context.Context) (domain.Telemetry, error)
}

// Svc implements Service
type Svc struct {
	src   Source
	cache *cache.Cache[inverterapi.Sample]
	cfg   Config
}

// New wires a service; obs may be nil
func New(src Source, clk clock.Clock, cfg Config, obs cache.Observer) *Svc {
	if src == nil {
		panic("inverter service requires a non nil Source")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 15 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 2 * time.Minute
	}
	return &Svc{
		src:   src,
		cache: cache.New[inverterapi.Sample]("inverter", clk, cfg.StaleAfter, obs),
		cfg:   cfg,
	}
}

// Refresh fetches one sample; a failure keeps the previous one
func (s *Svc) Refresh(ctx context.Context) error {
	if !s.src.Configured() {
		return perr.NotConfiguredf("%s", domain.MsgNoToken)
	}
	ctx = logger.WithFeed(ctx, "inverter")
	trigger := scope.Trigger(ctx)
	if _, err := s.cache.Refresh(ctx, s.src.Fetch); err != nil {
		logger.C(ctx).Warn().Err(err).Str("trigger", trigger).Bool("retryable", perr.Retryable(err)).Msg("inverter refresh failed")
		return err
	}
	return nil
}

// Run refreshes every interval until ctx is done; an unconfigured bridge idles
func (s *Svc) Run(ctx context.Context, every time.Duration) error {
	if !s.src.Configured() {
		logger.Named("inverter").Warn().Msg("inverter token not set; poller idle")
		<-ctx.Done()
		return ctx.Err()
	}
	if every <= 0 {
		every = s.cfg.MaxAge
	}
	ctx = scope.WithTrigger(ctx, scope.Poll)
	_ = s.Refresh(ctx)

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_ = s.Refresh(ctx)
		}
	}
}

// Telemetry serves the latest sample, fetching when it is older than MaxAge
// with no sample at all the fetch error is returned as is
func (s *Svc) Telemetry(ctx context.Context) (domain.Telemetry, error) {
	if !s.src.Configured() {
		return domain.Telemetry{}, perr.NotConfiguredf("%s", domain.MsgNoToken)
	}
	snap := s.cache.Get(logger.WithFeed(ctx, "inverter"), s.cfg.MaxAge, s.src.Fetch)
	if !snap.OK {
		if snap.Err != nil {
			return domain.Telemetry{}, snap.Err
		}
		return domain.Telemetry{}, perr.Unavailablef("inverter sample unavailable")
	}
	out := domain.Telemetry{
		Status:    "success",
		Timestamp: snap.Value.Timestamp,
		Data:      snap.Value.Data,
		Derived:   inverter.Derive(snap.Value.Reading, s.cfg.BatteryWh),
		FetchedAt: clock.Ptr(snap.FetchedAt),
		Stale:     snap.Stale,
	}
	if snap.Err != nil {
		out.Error = perr.WireFrom(snap.Err).Message
	}
	return out, nil
}

// Ready is nil once a sample was received
func (s *Svc) Ready() error {
	if !s.src.Configured() {
		return perr.NotConfiguredf("%s", domain.MsgNoToken)
	}
	return s.cache.Ready()
}
