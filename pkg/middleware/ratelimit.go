package middleware

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultLimiterIdle = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter keeps one token bucket per caller: the session user when
// authenticated, the client IP otherwise. Buckets idle for longer than the
// configured window are dropped.
type RateLimiter struct {
	limiters  sync.Map
	rps       rate.Limit
	burst     int
	idle      time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
	log       *zap.Logger
}

func NewRateLimiter(cfg utils.RateLimitConfig, log *zap.Logger) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	rps := rate.Limit(cfg.RPS)
	if cfg.RPS <= 0 {
		rps = rate.Inf
	}
	idle := cfg.Idle
	if idle <= 0 {
		idle = defaultLimiterIdle
	}
	l := &RateLimiter{rps: rps, burst: burst, idle: idle, now: time.Now, log: log}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()
	defer l.sweep(now)

	if v, ok := l.limiters.Load(key); ok {
		if entry, ok := v.(*clientLimiter); ok {
			entry.lastSeen.Store(now.UnixNano())
			return entry.limiter
		}
	}

	entry := &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
	entry.lastSeen.Store(now.UnixNano())
	actual, loaded := l.limiters.LoadOrStore(key, entry)
	if loaded {
		if actualEntry, ok := actual.(*clientLimiter); ok {
			actualEntry.lastSeen.Store(now.UnixNano())
			return actualEntry.limiter
		}
	}
	return entry.limiter
}

// sweep drops idle buckets at most once per idle window. Only the caller that
// wins the swap walks the map.
func (l *RateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idle) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-l.idle).UnixNano()
	evicted := 0
	l.limiters.Range(func(key, v any) bool {
		entry, ok := v.(*clientLimiter)
		if !ok || entry.lastSeen.Load() < cutoff {
			if l.limiters.CompareAndDelete(key, v) {
				evicted++
			}
		}
		return true
	})
	if evicted > 0 {
		l.log.Debug("Evicted idle rate limiters", zap.Int("count", evicted))
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// Limit rejects callers that exceed their bucket with 429.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !l.getLimiter(key).Allow() {
			l.log.Warn("Rate limit exceeded", zap.String("client", key), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			utils.ResponseTooManyRequests(w, "Too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
