// Package store keeps the latest alert state per oblast
// Webhook deliveries and polls write into the same map; their timestamps
// decide whether polling is needed at all
package store

import (
	"slices"
	"strconv"
	"sync"
	"time"

	"gridwatch/internal/adapters/ukrainealarm"
	"gridwatch/internal/platform/clock"
	pstrings "gridwatch/internal/platform/strings"
)

// oblastIDs are the top level regions of the alert API; districts and communities are dropped
var oblastIDs = map[string]bool{
	"3": true, "4": true, "5": true, "8": true, "9": true, "10": true, "11": true,
	"12": true, "13": true, "14": true, "15": true, "16": true, "17": true, "18": true,
	"19": true, "20": true, "21": true, "22": true, "23": true, "24": true, "25": true,
	"26": true, "27": true, "28": true, "29": true, "30": true, "31": true,
}

// IsOblast reports whether id is a top level region
func IsOblast(id string) bool { return oblastIDs[id] }

// Store is safe for concurrent use
type Store struct {
	clk clock.Clock

	mu        sync.RWMutex
	regions   map[string]ukrainealarm.Region
	polledAt  time.Time
	webhookAt time.Time
	oblast    *string
	lastErr   error
}

// New builds an empty store
func New(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	return &Store{clk: clk, regions: map[string]ukrainealarm.Region{}}
}

func tidy(r ukrainealarm.Region) ukrainealarm.Region {
	r.RegionName = pstrings.NormalizeName(r.RegionName)
	if r.ActiveAlerts == nil {
		r.ActiveAlerts = []ukrainealarm.ActiveAlert{}
	}
	return r
}

// UpdateRegion stores one webhook delivery; non-oblast regions are ignored
// and leave the webhook time untouched
func (s *Store) UpdateRegion(r ukrainealarm.Region) bool {
	if !IsOblast(r.RegionID) {
		return false
	}
	s.mu.Lock()
	s.regions[r.RegionID] = tidy(r)
	s.webhookAt = s.clk.Now()
	s.mu.Unlock()
	return true
}

// UpdateAll stores a poll answer and returns how many oblasts it carried
func (s *Store) UpdateAll(rs []ukrainealarm.Region) int {
	n := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		if !IsOblast(r.RegionID) {
			continue
		}
		s.regions[r.RegionID] = tidy(r)
		n++
	}
	s.polledAt = s.clk.Now()
	s.lastErr = nil
	return n
}

// Fail records a failed poll; stored regions stay
func (s *Store) Fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Err returns the error of the latest poll
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// SetOblastString stores the IoT status string
func (s *Store) SetOblastString(v string) {
	s.mu.Lock()
	s.oblast = &v
	s.mu.Unlock()
}

// OblastString returns the IoT status string or nil before the first success
func (s *Store) OblastString() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.oblast == nil {
		return nil
	}
	v := *s.oblast
	return &v
}

// Regions returns the stored regions ordered by numeric id
func (s *Store) Regions() []ukrainealarm.Region {
	s.mu.RLock()
	out := make([]ukrainealarm.Region, 0, len(s.regions))
	for _, r := range s.regions {
		out = append(out, r)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b ukrainealarm.Region) int { return numeric(a.RegionID) - numeric(b.RegionID) })
	return out
}

func numeric(id string) int {
	n, _ := strconv.Atoi(id)
	return n
}

// Region returns one stored oblast
func (s *Store) Region(id string) (ukrainealarm.Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regions[id]
	return r, ok
}

// HasData reports whether any oblast was stored
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regions) > 0
}

// LastUpdate is the later of the last poll and the last webhook delivery
func (s *Store) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.webhookAt.After(s.polledAt) {
		return s.webhookAt
	}
	return s.polledAt
}

// NeedsPolling is false while webhooks arrive within ttl, otherwise true once
// the last poll is older than ttl
func (s *Store) NeedsPolling(ttl time.Duration) bool {
	now := s.clk.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.webhookAt.IsZero() && now.Sub(s.webhookAt) < ttl {
		return false
	}
	return s.polledAt.IsZero() || now.Sub(s.polledAt) > ttl
}
