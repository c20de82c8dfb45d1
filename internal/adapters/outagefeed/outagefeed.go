// Package outagefeed reads the community outage document
// (fact.data.<kyiv-midnight-unix>.<group>.<hour 1..24> = yes|no|first|second)
package outagefeed

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/upstream"

	"github.com/tidwall/gjson"
)

// DefaultURL is the Kyiv region document
const DefaultURL = "https://raw.githubusercontent.com/Baskerville42/outage-data-ua/main/data/kyiv-region.json"

const dataPath = "fact.data"

// Document is a parsed outage document. The zero value holds no days
type Document struct {
	root gjson.Result
	size int
}

// Parse validates b as JSON and wraps it
func Parse(b []byte) (Document, error) {
	if !gjson.ValidBytes(b) {
		return Document{}, perr.Upstreamf("outage feed: invalid JSON")
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return Document{}, perr.Upstreamf("outage feed: document is not an object")
	}
	return Document{root: root, size: len(b)}, nil
}

// Size is the document size in bytes
func (d Document) Size() int { return d.size }

// Hours returns the raw hour map for one day and group. ok is false when the
// day or the group is missing
func (d Document) Hours(day int64, group string) (map[string]string, bool) {
	g := d.root.Get(dataPath + "." + strconv.FormatInt(day, 10) + "." + escape(group))
	if !g.IsObject() {
		return nil, false
	}
	out := make(map[string]string, 24)
	g.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = v.String()
		return true
	})
	return out, true
}

// Groups lists the group keys present for day, sorted
func (d Document) Groups(day int64) []string {
	var out []string
	d.root.Get(dataPath+"."+strconv.FormatInt(day, 10)).ForEach(func(k, v gjson.Result) bool {
		if v.IsObject() {
			out = append(out, k.String())
		}
		return true
	})
	sort.Strings(out)
	return out
}

// Days lists the day timestamps present in the document, ascending
func (d Document) Days() []int64 {
	var out []int64
	d.root.Get(dataPath).ForEach(func(k, _ gjson.Result) bool {
		if n, err := strconv.ParseInt(k.String(), 10, 64); err == nil {
			out = append(out, n)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// escape quotes gjson path metacharacters; group keys such as "GPV5.2" carry dots
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Client fetches the document
type Client struct {
	up  *upstream.Client
	url string
}

// New builds a Client; an empty url falls back to DefaultURL
func New(up *upstream.Client, url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{up: up, url: url}
}

// Fetch downloads and parses the document
func (c *Client) Fetch(ctx context.Context) (Document, error) {
	b, err := c.up.GetBytes(ctx, c.url, http.Header{"Cache-Control": {"no-cache"}})
	if err != nil {
		return Document{}, err
	}
	return Parse(b)
}
