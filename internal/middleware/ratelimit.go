package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/nearby/api/internal/config"
)

// ReviewRateLimiter applies a token bucket per caller to review submissions.
// Callers are keyed by subject when authenticated and by client IP otherwise;
// the IP comes from the echo IPExtractor, see ClientIPExtractor.
func ReviewRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	limiters := newCallerLimiters(cfg, time.Now)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiters.allow(callerKey(c)) {
				return errorEnvelope(c, http.StatusTooManyRequests, "rate_limited", "review rate limit exceeded")
			}
			return next(c)
		}
	}
}

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// callerLimiters holds one bucket per caller. A bucket idle for a full
// interval is refilled, so it is swept and recreated on the next request.
type callerLimiters struct {
	mu         sync.Mutex
	perRequest time.Duration
	burst      int
	idle       time.Duration
	now        func() time.Time
	lastSweep  time.Time
	entries    map[string]*callerLimiter
}

func newCallerLimiters(cfg config.RateLimitConfig, now func() time.Time) *callerLimiters {
	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return &callerLimiters{
		perRequest: perRequest,
		burst:      cfg.Requests,
		idle:       cfg.Interval,
		now:        now,
		lastSweep:  now(),
		entries:    map[string]*callerLimiter{},
	}
}

func (l *callerLimiters) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	entry, ok := l.entries[key]
	if !ok {
		entry = &callerLimiter{limiter: rate.NewLimiter(rate.Every(l.perRequest), l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *callerLimiters) sweep(now time.Time) {
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) >= l.idle {
			delete(l.entries, key)
		}
	}
	l.lastSweep = now
}

func (l *callerLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func callerKey(c echo.Context) string {
	if identity := IdentityFromContext(c); identity.IsAuthenticated() {
		return "sub:" + identity.Subject()
	}
	return "ip:" + c.RealIP()
}
