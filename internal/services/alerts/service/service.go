// Package service merges polled and pushed alert state into dashboard views
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gridwatch/internal/adapters/ukrainealarm"
	"gridwatch/internal/core/alertmap"
	"gridwatch/internal/modkit/scope"
	"gridwatch/internal/platform/clock"
	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
	"gridwatch/internal/services/alerts/domain"
	"gridwatch/internal/services/alerts/store"
)

// API is the alert provider
type API interface {
	Configured() bool
	Regions(ctx context.Context) ([]ukrainealarm.Region, error)
	OblastString(ctx context.Context) (string, error)
	RegisterWebhook(ctx context.Context, url string) (string, error)
}

// Observer is told about refreshes and webhook outcomes; metrics.Metrics satisfies it
type Observer interface {
	Refreshed(feed string, err error, at time.Time)
	Webhook(res string)
}

// Config holds poll and webhook settings
type Config struct {
	TTL time.Duration
	// Local are the regions of interest as id and display name
	Local [][2]string
	// WebhookURL is where the provider should deliver region changes
	WebhookURL string
	// StaleAfter flags views whose last update is older
	StaleAfter time.Duration
}

// Service is the contract the transport uses
type Service interface {
	Refresh(ctx context.Context) error
	Overview(ctx context.Context) domain.Overview
	Local(ctx context.Context) domain.Local
	Map(ctx context.Context) domain.Map
	MapOf(records []alertmap.Alert) domain.Map
	Receive(ctx context.Context, r ukrainealarm.Region) domain.Received
	WebhookStatus() domain.WebhookStatus
	Register(ctx context.Context) (domain.Registration, error)
	RegisterStatus() domain.RegisterStatus
	Webhook(res string)
}

// Svc implements Service
type Svc struct {
	api   API
	store *store.Store
	clk   clock.Clock
	cfg   Config
	obs   Observer
}

// New wires a service; obs may be nil
func New(api API, st *store.Store, clk clock.Clock, cfg Config, obs Observer) *Svc {
	if api == nil {
		panic("alerts.Service requires a non nil API")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if st == nil {
		st = store.New(clk)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 5 * time.Minute
	}
	return &Svc{api: api, store: st, clk: clk, cfg: cfg, obs: obs}
}

// Store exposes the backing store
func (s *Svc) Store() *store.Store { return s.store }

// Webhook forwards a webhook outcome to the observer
func (s *Svc) Webhook(res string) {
	if s.obs != nil {
		s.obs.Webhook(res)
	}
}

// Refresh polls the provider; the IoT string is optional and its failure only logs
func (s *Svc) Refresh(ctx context.Context) error {
	ctx = logger.WithFeed(ctx, "alerts")
	if !s.api.Configured() {
		return perr.NotConfiguredf("%s", domain.MsgNoKey)
	}
	trigger := scope.Trigger(ctx)

	regions, err := s.api.Regions(ctx)
	if s.obs != nil {
		s.obs.Refreshed("alerts", err, s.clk.Now())
	}
	if err != nil {
		s.store.Fail(err)
		logger.C(ctx).Warn().Err(err).Str("trigger", trigger).Bool("retryable", perr.Retryable(err)).Msg("alerts poll failed")
		return err
	}
	n := s.store.UpdateAll(regions)

	if str, err := s.api.OblastString(ctx); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("oblast string unavailable")
	} else {
		s.store.SetOblastString(str)
	}
	logger.C(ctx).Debug().Int("oblasts", n).Str("trigger", trigger).Msg("alerts polled")
	return nil
}

// RefreshIfNeeded polls only when webhooks and the last poll are both older than the TTL
func (s *Svc) RefreshIfNeeded(ctx context.Context) (bool, error) {
	if !s.store.NeedsPolling(s.cfg.TTL) {
		return false, nil
	}
	return true, s.Refresh(ctx)
}

// Run checks every interval whether a poll is due until ctx is done
func (s *Svc) Run(ctx context.Context, every time.Duration) error {
	if !s.api.Configured() {
		logger.Named("alerts").Warn().Msg("alerts API key not set; poller idle")
		<-ctx.Done()
		return ctx.Err()
	}
	if every <= 0 {
		every = s.cfg.TTL
	}
	ctx = scope.WithTrigger(ctx, scope.Poll)
	_, _ = s.RefreshIfNeeded(ctx)

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_, _ = s.RefreshIfNeeded(ctx)
		}
	}
}

// ensure fills the store on first use when nothing arrived yet
func (s *Svc) ensure(ctx context.Context) error {
	if s.store.HasData() {
		return s.store.Err()
	}
	if _, err := s.RefreshIfNeeded(ctx); err != nil {
		return err
	}
	return s.store.Err()
}

func (s *Svc) lastUpdate() *time.Time { return clock.Ptr(s.store.LastUpdate()) }

func apiError(err error) string {
	if st, ok := perr.StatusOf(err); ok {
		return "API помилка: " + strconv.Itoa(st)
	}
	return err.Error()
}

// Overview lists every oblast with its alert types
func (s *Svc) Overview(ctx context.Context) domain.Overview {
	out := domain.Overview{Alerts: []domain.AlertData{}}
	if !s.api.Configured() {
		out.Error = domain.MsgNoKey
		return out
	}
	err := s.ensure(ctx)
	if !s.store.HasData() {
		if err != nil {
			out.Error = apiError(err)
		}
		return out
	}
	out.OK = true
	for _, r := range s.store.Regions() {
		out.Alerts = append(out.Alerts, domain.AlertData{
			RegionID:    r.RegionID,
			RegionName:  r.RegionName,
			ActiveAlert: r.Active(),
			LastUpdate:  r.LastUpdate,
			AlertTypes:  r.Types(),
		})
	}
	out.OblastString = s.store.OblastString()
	out.LastUpdate = s.lastUpdate()
	out.Stale = s.clk.Now().Sub(s.store.LastUpdate()) > s.cfg.StaleAfter
	if err != nil {
		out.Error = apiError(err)
	}
	return out
}

// Local reports the configured regions. An oblast counts only for oblast-wide
// alerts; communities and districts are found among the alerts of their oblast
func (s *Svc) Local(ctx context.Context) domain.Local {
	out := domain.Local{Regions: []domain.LocalRegion{}}
	if !s.api.Configured() {
		out.Error = domain.MsgNoKey
		return out
	}
	err := s.ensure(ctx)
	regions := s.store.Regions()
	for _, lr := range s.cfg.Local {
		v := domain.LocalRegion{ID: lr[0], Name: lr[1], AlertTypes: []string{}}
		for _, r := range regions {
			for _, a := range r.ActiveAlerts {
				if a.RegionID == lr[0] || (a.RegionID == "" && r.RegionID == lr[0]) {
					v.AlertTypes = append(v.AlertTypes, a.Type)
				}
			}
		}
		v.ActiveAlert = len(v.AlertTypes) > 0
		out.AnyActive = out.AnyActive || v.ActiveAlert
		out.Regions = append(out.Regions, v)
	}
	out.OK = s.store.HasData()
	out.LastUpdate = s.lastUpdate()
	if err != nil {
		out.Error = apiError(err)
	}
	return out
}

// Map folds oblasts into the 25 map regions
func (s *Svc) Map(ctx context.Context) domain.Map {
	if s.api.Configured() {
		_ = s.ensure(ctx)
	}
	regions := s.store.Regions()
	alerts := make([]alertmap.Alert, 0, len(regions))
	for _, r := range regions {
		alerts = append(alerts, alertmap.FromFlag(r.RegionID, r.Active()))
	}
	out := fold(alerts)
	out.LastUpdate = s.lastUpdate()
	return out
}

// MapOf folds caller-supplied alert records without touching the store
func (s *Svc) MapOf(records []alertmap.Alert) domain.Map { return fold(records) }

func fold(alerts []alertmap.Alert) domain.Map {
	out := domain.Map{Regions: alertmap.StatusOf(alerts, alertmap.Regions)}
	for _, st := range out.Regions {
		if st.IsAlert {
			out.Active++
		}
	}
	return out
}

// Receive stores a webhook delivery; districts and communities are acknowledged but dropped
func (s *Svc) Receive(ctx context.Context, r ukrainealarm.Region) domain.Received {
	stored := s.store.UpdateRegion(r)
	types := "немає"
	if r.Active() {
		types = strings.Join(r.Types(), ", ")
	}
	logger.C(logger.WithFeed(ctx, "alerts")).Info().
		Str("region_id", r.RegionID).
		Str("region", r.RegionName).
		Int("alerts", len(r.ActiveAlerts)).
		Str("types", types).
		Bool("stored", stored).
		Str("trigger", scope.Trigger(ctx)).
		Msg("webhook delivery")
	return domain.Received{OK: true, Received: r.RegionID}
}

// WebhookStatus answers the liveness probe of the webhook endpoint
func (s *Svc) WebhookStatus() domain.WebhookStatus {
	return domain.WebhookStatus{
		Status:    "ok",
		Message:   "Webhook endpoint is ready",
		Timestamp: s.clk.Now().UTC(),
	}
}

// Register asks the provider to deliver region changes to the configured URL
func (s *Svc) Register(ctx context.Context) (domain.Registration, error) {
	if !s.api.Configured() {
		return domain.Registration{}, perr.NotConfiguredf("%s", domain.MsgNoKey)
	}
	if s.cfg.WebhookURL == "" {
		return domain.Registration{}, perr.NotConfiguredf("%s", domain.MsgNoWebhook)
	}
	res, err := s.api.RegisterWebhook(ctx, s.cfg.WebhookURL)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("url", s.cfg.WebhookURL).Msg("webhook registration failed")
		return domain.Registration{}, err
	}
	logger.C(ctx).Info().Str("url", s.cfg.WebhookURL).Str("response", res).Msg("webhook registered")
	return domain.Registration{
		OK:         true,
		Message:    domain.MsgRegistered,
		WebhookURL: s.cfg.WebhookURL,
		Response:   res,
	}, nil
}

// RegisterStatus reports what a registration would use
func (s *Svc) RegisterStatus() domain.RegisterStatus {
	url := s.cfg.WebhookURL
	if url == "" {
		url = domain.MsgNotSet
	}
	return domain.RegisterStatus{
		Status:       "ready",
		WebhookURL:   url,
		HasAPIKey:    s.api.Configured(),
		Instructions: "POST на цей endpoint для реєстрації webhook",
	}
}

// Ready is nil once any alert state arrived by poll or webhook
func (s *Svc) Ready() error {
	switch {
	case s.store.HasData():
		return nil
	case !s.api.Configured():
		return perr.NotConfiguredf("%s", domain.MsgNoKey)
	case s.store.Err() != nil:
		return s.store.Err()
	}
	return perr.Unavailablef("alerts: no data yet")
}
