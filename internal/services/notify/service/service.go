// Package service relays push notifications and derives them from outage updates
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gridwatch/internal/adapters/pushserver"
	"gridwatch/internal/core/calendar"
	"gridwatch/internal/platform/clock"
	"gridwatch/internal/platform/logger"
	"gridwatch/internal/services/notify/domain"
)

// Pusher is the relay
type Pusher interface {
	Send(ctx context.Context, m pushserver.Message, key string) (json.RawMessage, error)
	Subscribe(ctx context.Context, sub pushserver.Subscription, region string) (json.RawMessage, error)
}

// Recorder counts delivery attempts
type Recorder interface {
	Notified(kind string, err error)
}

// Config holds relay defaults
type Config struct {
	Region         string
	VAPIDPublicKey string
	// Notifier is echoed by Config so the page can say whether pushes are automatic
	Notifier bool
}

// Service is the contract the transport uses
type Service interface {
	Send(ctx context.Context, in domain.SendRequest) (domain.Sent, error)
	Test(ctx context.Context) (domain.TestSent, error)
	Subscribe(ctx context.Context, in domain.SubscribeRequest) (domain.Subscribed, error)
	Config(ctx context.Context) domain.Config
}

// Svc implements Service
type Svc struct {
	push  Pusher
	clk   clock.Clock
	loc   *time.Location
	cfg   Config
	rec   Recorder
	newID func() string
}

// New wires a service; rec may be nil
func New(push Pusher, clk clock.Clock, loc *time.Location, cfg Config, rec Recorder) *Svc {
	if push == nil {
		panic("notify.Service requires a non nil Pusher")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if cfg.Region == "" {
		cfg.Region = "kyiv"
	}
	return &Svc{push: push, clk: clk, loc: loc, cfg: cfg, rec: rec, newID: uuid.NewString}
}

// deliver sends m under a fresh idempotency key
func (s *Svc) deliver(ctx context.Context, m pushserver.Message) (domain.Sent, error) {
	if m.Region == "" {
		m.Region = s.cfg.Region
	}
	id := s.newID()
	res, err := s.push.Send(ctx, m, id)
	if s.rec != nil {
		s.rec.Notified(m.Type, err)
	}
	log := logger.C(ctx)
	if err != nil {
		log.Warn().Err(err).Str("type", m.Type).Str("id", id).Msg("push send failed")
		return domain.Sent{}, err
	}
	log.Info().Str("type", m.Type).Str("id", id).Str("region", m.Region).Msg("push sent")
	return domain.Sent{OK: true, ID: id, Type: m.Type, Region: m.Region, Result: res}, nil
}

// Send relays a validated notification
func (s *Svc) Send(ctx context.Context, in domain.SendRequest) (domain.Sent, error) {
	return s.deliver(ctx, pushserver.Message{Type: in.Type, Title: in.Title, Body: in.Message, Region: in.Region})
}

// Test sends a blackout_30min probe stamped with the local time
func (s *Svc) Test(ctx context.Context) (domain.TestSent, error) {
	now := s.clk.Now()
	sent, err := s.deliver(ctx, pushserver.Message{
		Type:  domain.KindSoon,
		Title: "🧪 Тестове сповіщення",
		Body: fmt.Sprintf("Тестова відправка о %s (Київ). Якщо ви бачите це повідомлення, push працює!",
			calendar.Clock(now, s.loc)),
	})
	if err != nil {
		return domain.TestSent{}, err
	}
	return domain.TestSent{Sent: sent, Timestamp: now.UTC(), Message: domain.MsgTestSent}, nil
}

// Subscribe forwards a browser subscription
func (s *Svc) Subscribe(ctx context.Context, in domain.SubscribeRequest) (domain.Subscribed, error) {
	region := in.Region
	if region == "" {
		region = s.cfg.Region
	}
	res, err := s.push.Subscribe(ctx, in.Subscription, region)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("region", region).Msg("push subscribe failed")
		return domain.Subscribed{}, err
	}
	return domain.Subscribed{OK: true, Region: region, Result: res}, nil
}

// Config describes the relay to browsers
func (s *Svc) Config(context.Context) domain.Config {
	return domain.Config{
		VAPIDPublicKey: s.cfg.VAPIDPublicKey,
		Region:         s.cfg.Region,
		Types:          append([]string(nil), domain.Kinds...),
		Notifier:       s.cfg.Notifier,
	}
}
