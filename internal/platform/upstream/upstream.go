// Package upstream is the outbound HTTP client every adapter goes through
// Retries with backoff come from go-retryablehttp; non-2xx answers and transport
// failures are mapped to project errors so handlers can pick the right status
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultRetryMax = 2
	defaultMaxBody  = 4 << 20
	defaultUA       = "gridwatch"
)

// Recorder receives one observation per logical call (retries included)
type Recorder interface {
	Upstream(service string, status int, err error, took time.Duration)
}

// Options configures a Client
type Options struct {
	Service string
	BaseURL string
	Header  map[string]string

	Timeout      time.Duration
	RetryMax     int // negative disables retries
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	MaxBody      int64

	Recorder Recorder
	// HTTPClient supplies the transport; it is copied, Timeout wins over its own
	HTTPClient *http.Client
}

// Client talks to one third-party service
type Client struct {
	svc     string
	base    string
	hdr     http.Header
	maxBody int64
	rec     Recorder
	rc      *retryablehttp.Client
	now     func() time.Time
}

// Response is a fully read upstream answer
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// New builds a Client with defaults filled in
func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RetryMax == 0 {
		o.RetryMax = defaultRetryMax
	}
	if o.RetryMax < 0 {
		o.RetryMax = 0
	}
	if o.MaxBody <= 0 {
		o.MaxBody = defaultMaxBody
	}

	rc := retryablehttp.NewClient()
	if o.HTTPClient != nil {
		hc := *o.HTTPClient
		rc.HTTPClient = &hc
	}
	rc.HTTPClient.Timeout = o.Timeout
	rc.RetryMax = o.RetryMax
	if o.RetryWaitMin > 0 {
		rc.RetryWaitMin = o.RetryWaitMin
	}
	if o.RetryWaitMax > 0 {
		rc.RetryWaitMax = o.RetryWaitMax
	}
	rc.Logger = LeveledLogger{L: logger.Named("upstream").With().Str("service", o.Service).Logger()}
	// keep the last response so its status can be mapped
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	hdr := http.Header{}
	hdr.Set("User-Agent", defaultUA)
	for k, v := range o.Header {
		hdr.Set(k, v)
	}

	return &Client{
		svc:     o.Service,
		base:    strings.TrimRight(o.BaseURL, "/"),
		hdr:     hdr,
		maxBody: o.MaxBody,
		rec:     o.Recorder,
		rc:      rc,
		now:     time.Now,
	}
}

// Service returns the service label
func (c *Client) Service() string { return c.svc }

// BaseURL returns the configured base URL without a trailing slash
func (c *Client) BaseURL() string { return c.base }

// URL resolves path against the base URL; absolute URLs pass through
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Do sends a request and reads the whole body. Non-2xx answers return the response
// together with an error mapped through perr.FromStatus
func (c *Client) Do(ctx context.Context, method, path string, body []byte, hdr http.Header) (*Response, error) {
	start := c.now()
	resp, err := c.do(ctx, method, path, body, hdr)
	status := 0
	if resp != nil {
		status = resp.Status
	}
	if c.rec != nil {
		c.rec.Upstream(c.svc, status, err, c.now().Sub(start))
	}
	if err != nil {
		err = perr.WithOp(err, method+" "+path)
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, hdr http.Header) (*Response, error) {
	var raw any
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.URL(path), raw)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "%s: build request", c.svc)
	}
	for k, vv := range c.hdr {
		req.Header[k] = append([]string(nil), vv...)
	}
	for k, vv := range hdr {
		req.Header.Del(k)
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	res, err := c.rc.Do(req)
	if err != nil {
		return nil, perr.FromTransport(err, c.svc+": request failed")
	}
	defer func() { _ = res.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody+1))
	if err != nil {
		return nil, perr.FromTransport(err, c.svc+": read body")
	}
	out := &Response{Status: res.StatusCode, Header: res.Header, Body: b}
	if int64(len(b)) > c.maxBody {
		out.Body = b[:c.maxBody]
		return out, perr.Upstreamf("%s: response larger than %d bytes", c.svc, c.maxBody)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return out, perr.FromStatus(c.svc, res.StatusCode, string(b), c.svc+": unexpected status")
	}
	return out, nil
}

// GetBytes fetches path and returns the raw body
func (c *Client) GetBytes(ctx context.Context, path string, hdr http.Header) ([]byte, error) {
	res, err := c.Do(ctx, http.MethodGet, path, nil, hdr)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// GetJSON fetches path and decodes the body into out
func (c *Client) GetJSON(ctx context.Context, path string, hdr http.Header, out any) error {
	b, err := c.GetBytes(ctx, path, hdr)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "%s: decode response", c.svc)
	}
	return nil
}

// PostJSON encodes in as the request body and returns the raw answer
func (c *Client) PostJSON(ctx context.Context, path string, in any, hdr http.Header) (*Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(in); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "%s: encode request", c.svc)
	}
	h := http.Header{"Content-Type": {"application/json"}}
	for k, vv := range hdr {
		h[k] = vv
	}
	return c.Do(ctx, http.MethodPost, path, buf.Bytes(), h)
}
