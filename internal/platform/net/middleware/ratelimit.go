package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
	pnet "gridwatch/internal/platform/net"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures the per-client limiter
type RateLimitOptions struct {
	// Every is the refill interval of one token, e.g. time.Minute/20 for 20 per minute
	Every time.Duration
	Burst int
	// IdleTTL drops limiters for clients not seen for this long, 0 keeps them forever
	IdleTTL time.Duration
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiterStore holds one token bucket per client IP
type limiterStore struct {
	mu       sync.Mutex
	opt      RateLimitOptions
	visitors map[string]*visitor
	now      func() time.Time
	lastGC   time.Time
}

func newLimiterStore(opt RateLimitOptions) *limiterStore {
	if opt.Every <= 0 {
		opt.Every = time.Second
	}
	if opt.Burst <= 0 {
		opt.Burst = 1
	}
	return &limiterStore{opt: opt, visitors: map[string]*visitor{}, now: time.Now}
}

func (s *limiterStore) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.opt.IdleTTL > 0 && now.Sub(s.lastGC) > s.opt.IdleTTL {
		for k, v := range s.visitors {
			if now.Sub(v.seen) > s.opt.IdleTTL {
				delete(s.visitors, k)
			}
		}
		s.lastGC = now
	}

	v, ok := s.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(rate.Every(s.opt.Every), s.opt.Burst)}
		s.visitors[ip] = v
	}
	v.seen = now
	return v.lim.AllowN(now, 1)
}

// RateLimit answers 429 once a client IP drains its bucket
func RateLimit(opt RateLimitOptions, write JSONWriter) func(http.Handler) http.Handler {
	store := newLimiterStore(opt)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := pnet.RemoteIP(r.Context())
			if ip == "" {
				ip = clientIP(r)
			}
			if !store.allow(ip) {
				logger.C(r.Context()).Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
				w.Header().Set("Retry-After", retryAfter(opt.Every))
				status, body := pnet.Error(perr.Newf(perr.ErrorCodeTooManyRequests, "rate limit exceeded"), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(every time.Duration) string {
	secs := int(every.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
