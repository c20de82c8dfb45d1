// Package domain holds push notification payloads and views
package domain

import (
	"encoding/json"
	"time"

	"gridwatch/internal/adapters/pushserver"
)

// Notification kinds the relay and the service worker understand
const (
	KindSoon     = "blackout_30min"
	KindChange   = "blackout_change"
	KindTomorrow = "blackout_tomorrow"
)

// Kinds lists the accepted notification kinds
var Kinds = []string{KindSoon, KindChange, KindTomorrow}

// MsgTestSent confirms a test push
const MsgTestSent = "Тестове push-повідомлення відправлено"

// SendRequest is POST /push/send; an empty region means the configured one
type SendRequest struct {
	Type    string `json:"type"    validate:"required,oneof=blackout_30min blackout_change blackout_tomorrow" example:"blackout_30min"`
	Title   string `json:"title"   validate:"required,max=120"`
	Message string `json:"message" validate:"required,max=500"`
	Region  string `json:"region"  validate:"omitempty,max=64" example:"kyiv"`
}

// SubscribeRequest is POST /push/subscribe
type SubscribeRequest struct {
	Subscription pushserver.Subscription `json:"subscription"`
	Region       string                  `json:"region" validate:"omitempty,max=64" example:"kyiv"`
}

// Sent reports one relay delivery
type Sent struct {
	OK bool `json:"ok"`
	// ID doubles as the relay Idempotency-Key
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Region string          `json:"region"`
	Result json.RawMessage `json:"result" swaggertype:"object"`
}

// TestSent is POST /push/test
type TestSent struct {
	Sent
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Subscribed is POST /push/subscribe
type Subscribed struct {
	OK     bool            `json:"ok"`
	Region string          `json:"region"`
	Result json.RawMessage `json:"result" swaggertype:"object"`
}

// Config is GET /push/config, what a browser needs to subscribe
type Config struct {
	VAPIDPublicKey string   `json:"vapid_public_key,omitempty"`
	Region         string   `json:"region"`
	Types          []string `json:"types"`
	// Notifier reports whether outage notifications are sent automatically
	Notifier bool `json:"notifier"`
}
