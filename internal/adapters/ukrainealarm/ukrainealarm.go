// Package ukrainealarm is a client for api.ukrainealarm.com
package ukrainealarm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	perr "gridwatch/internal/platform/errors"
	pstrings "gridwatch/internal/platform/strings"
	"gridwatch/internal/platform/upstream"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the production API
const DefaultBaseURL = "https://api.ukrainealarm.com"

const (
	pathRegions = "/api/v3/regions"
	pathWebhook = "/api/v3/webhook"
	pathIoT     = "/api/v1/iot/active_air_raid_alerts_by_oblast.json"
)

// ActiveAlert is one running alert inside a region
type ActiveAlert struct {
	RegionID   string `json:"regionId"`
	RegionType string `json:"regionType,omitempty"`
	Type       string `json:"type"`
	LastUpdate string `json:"lastUpdate,omitempty"`
}

// Region is the per-region alert state, shared by the polling API and webhook deliveries
type Region struct {
	RegionID      string        `json:"regionId" validate:"required"`
	RegionType    string        `json:"regionType,omitempty"`
	RegionName    string        `json:"regionName" validate:"required"`
	RegionEngName string        `json:"regionEngName,omitempty"`
	LastUpdate    string        `json:"lastUpdate,omitempty"`
	ActiveAlerts  []ActiveAlert `json:"activeAlerts"`
}

// Active reports whether any alert runs in the region
func (r Region) Active() bool { return len(r.ActiveAlerts) > 0 }

// Types lists the alert types in delivery order
func (r Region) Types() []string {
	out := make([]string, 0, len(r.ActiveAlerts))
	for _, a := range r.ActiveAlerts {
		out = append(out, a.Type)
	}
	return out
}

// Client talks to the alert API. An empty key leaves it unconfigured
type Client struct {
	up  *upstream.Client
	key string
}

// New builds a Client; up carries the base URL
func New(up *upstream.Client, key string) *Client {
	return &Client{up: up, key: strings.TrimSpace(key)}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool { return c != nil && c.key != "" }

func (c *Client) authed(accept string) (http.Header, error) {
	if !c.Configured() {
		return nil, perr.NotConfiguredf("alerts API key is not configured")
	}
	return http.Header{"Authorization": {c.key}, "Accept": {accept}}, nil
}

// Regions returns every region with its active alerts. The answer is either a
// bare array or an object with a "states" array
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	hdr, err := c.authed("application/json")
	if err != nil {
		return nil, err
	}
	b, err := c.up.GetBytes(ctx, pathRegions, hdr)
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(b)
	arr := root
	if !arr.IsArray() {
		arr = root.Get("states")
	}
	if !arr.IsArray() {
		return nil, perr.Upstreamf("ukrainealarm: regions answer is not a list")
	}
	var out []Region
	if err := json.Unmarshal([]byte(arr.Raw), &out); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "ukrainealarm: decode regions")
	}
	return out, nil
}

// OblastString returns the IoT per-oblast status string with quotes stripped
func (c *Client) OblastString(ctx context.Context) (string, error) {
	b, err := c.up.GetBytes(ctx, pathIoT, http.Header{"Cache-Control": {"no-cache"}})
	if err != nil {
		return "", err
	}
	return pstrings.StripQuotes(string(b)), nil
}

// RegisterWebhook asks the API to deliver region changes to url and returns its text answer
func (c *Client) RegisterWebhook(ctx context.Context, url string) (string, error) {
	hdr, err := c.authed("text/plain")
	if err != nil {
		return "", err
	}
	res, err := c.up.PostJSON(ctx, pathWebhook, map[string]string{"webHookUrl": url}, hdr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Body)), nil
}
