// Package pushserver forwards notifications and subscriptions to the Web Push relay
package pushserver

import (
	"context"
	"encoding/json"
	"net/http"

	"gridwatch/internal/platform/upstream"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the relay the dashboard subscribes browsers to
const DefaultBaseURL = "https://push.kostrov.work"

// Message is one broadcast to every subscriber of a region
type Message struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Region string `json:"region"`
}

// Keys are the browser-issued encryption keys of a subscription
type Keys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

// Subscription is a browser PushSubscription
type Subscription struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     Keys   `json:"keys" validate:"required"`
}

// Client talks to the relay
type Client struct {
	up *upstream.Client
}

// New builds a Client; up carries the base URL
func New(up *upstream.Client) *Client { return &Client{up: up} }

// Send posts m and returns the relay answer. key is sent as Idempotency-Key so a retried
// attempt is not delivered twice
func (c *Client) Send(ctx context.Context, m Message, key string) (json.RawMessage, error) {
	var hdr http.Header
	if key != "" {
		hdr = http.Header{"Idempotency-Key": {key}}
	}
	res, err := c.up.PostJSON(ctx, "/push/send", m, hdr)
	if err != nil {
		return nil, err
	}
	return asJSON(res.Body), nil
}

// Subscribe registers a browser subscription for region
func (c *Client) Subscribe(ctx context.Context, sub Subscription, region string) (json.RawMessage, error) {
	res, err := c.up.PostJSON(ctx, "/push/subscribe", struct {
		Subscription Subscription `json:"subscription"`
		Region       string       `json:"region"`
	}{sub, region}, nil)
	if err != nil {
		return nil, err
	}
	return asJSON(res.Body), nil
}

// asJSON passes a JSON answer through and quotes anything else
func asJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	if gjson.ValidBytes(b) {
		return json.RawMessage(b)
	}
	q, _ := json.Marshal(string(b))
	return q
}
