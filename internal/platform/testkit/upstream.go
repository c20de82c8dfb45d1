package testkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply is a canned upstream answer
type Reply struct {
	Status int
	Body   string
	Header map[string]string
}

// Seen is one request the fake upstream received
type Seen struct {
	Header http.Header
	Query  string
	Body   []byte
}

// Upstream is an httptest server answering "METHOD /path" routes with canned replies.
// Unknown routes answer 404. Safe for concurrent use
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]Reply
	seen   map[string][]Seen
}

// NewUpstream starts a fake upstream; it is closed on test cleanup
func NewUpstream(t *testing.T, routes map[string]Reply) *Upstream {
	t.Helper()
	u := &Upstream{routes: map[string]Reply{}, seen: map[string][]Seen{}}
	for k, v := range routes {
		u.routes[k] = v
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.seen[key] = append(u.seen[key], Seen{Header: r.Header.Clone(), Query: r.URL.RawQuery, Body: body})
	rep, ok := u.routes[key]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	for k, v := range rep.Header {
		w.Header().Set(k, v)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	status := rep.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, rep.Body)
}

// Set replaces the reply of a route
func (u *Upstream) Set(route string, rep Reply) {
	u.mu.Lock()
	u.routes[route] = rep
	u.mu.Unlock()
}

// Hits returns how many times route was requested
func (u *Upstream) Hits(route string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.seen[route])
}

// Last returns the most recent request seen on route
func (u *Upstream) Last(route string) (Seen, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.seen[route]
	if len(s) == 0 {
		return Seen{}, false
	}
	return s[len(s)-1], true
}
