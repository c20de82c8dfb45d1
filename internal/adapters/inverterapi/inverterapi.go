// Package inverterapi reads realtime telemetry from the inverter bridge API
package inverterapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gridwatch/internal/core/inverter"
	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/upstream"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the bridge the dashboard was built against
const DefaultBaseURL = "http://173.212.215.18:8080"

const pathInverter = "/api/inverter"

// dropped are identifying fields never passed on to clients
var dropped = []string{"inverterName", "collectorName"}

// Sample is one validated answer
type Sample struct {
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	// Data is the upstream record minus the identifying fields, unknown keys kept
	Data    map[string]any    `json:"data"`
	Reading inverter.Reading `json:"-"`
}

// Client calls the bridge with a bearer token. An empty token leaves it unconfigured
type Client struct {
	up    *upstream.Client
	token string
}

// New builds a Client
func New(up *upstream.Client, token string) *Client {
	return &Client{up: up, token: strings.TrimSpace(token)}
}

// Configured reports whether a token is set
func (c *Client) Configured() bool { return c != nil && c.token != "" }

// Fetch returns the latest sample. Upstream 401 stays Unauthorized; every other
// failure, including a body without status "success" and data, is Upstream
func (c *Client) Fetch(ctx context.Context) (Sample, error) {
	if !c.Configured() {
		return Sample{}, perr.NotConfiguredf("inverter API token is not configured")
	}
	b, err := c.up.GetBytes(ctx, pathInverter, http.Header{
		"Authorization": {"Bearer " + c.token},
		"Accept":        {"application/json"},
	})
	if err != nil {
		if perr.CodeOf(err) != perr.ErrorCodeUnauthorized && perr.CodeOf(err) != perr.ErrorCodeUpstream {
			err = perr.Wrap(err, perr.ErrorCodeUpstream, "inverter: request failed")
		}
		return Sample{}, err
	}
	return Decode(b)
}

// Decode validates and splits one answer
func Decode(b []byte) (Sample, error) {
	if !gjson.ValidBytes(b) {
		return Sample{}, perr.Upstreamf("inverter: invalid JSON")
	}
	root := gjson.ParseBytes(b)
	data := root.Get("data")
	if root.Get("status").String() != "success" || !data.IsObject() {
		return Sample{}, perr.Upstreamf("inverter: unexpected answer")
	}

	var s Sample
	if err := json.Unmarshal([]byte(data.Raw), &s.Data); err != nil {
		return Sample{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "inverter: decode data")
	}
	for _, k := range dropped {
		delete(s.Data, k)
	}
	if err := json.Unmarshal([]byte(data.Raw), &s.Reading); err != nil {
		return Sample{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "inverter: decode reading")
	}
	if ts := root.Get("timestamp"); ts.Exists() {
		s.Timestamp = json.RawMessage(ts.Raw)
	}
	return s, nil
}
