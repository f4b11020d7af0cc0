package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/respond"
)

const (
	rateLimitMessage = "Too many requests, please try again later."
	sweepThreshold   = 4096
)

type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RuleForWindow allows max requests per window, refilled continuously.
func RuleForWindow(max int, window time.Duration) RateLimitRule {
	if max <= 0 || window <= 0 {
		return RateLimitRule{}
	}
	return RateLimitRule{Rate: float64(max) / window.Seconds(), Burst: max}
}

type RateLimitConfig struct {
	Rule    RateLimitRule
	Limiter *RateLimiter
}

type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
	rule   RateLimitRule
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit throttles per source address. The source is c.ClientIP, so
// forwarding headers only count when the engine trusts the peer.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.ClientIP())
		allowed, retryAfter := cfg.Limiter.Allow(key, cfg.Rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", rateLimitMessage)
	}
}

func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= sweepThreshold {
			l.sweep(now)
		}
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
			rule:   rule,
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0
	}
	needed := 1 - bucket.tokens
	waitSec := needed / rule.Rate
	if waitSec < 0 {
		waitSec = 0
	}
	retryAfter := time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
	return false, retryAfter
}

// sweep drops buckets that would already be full again. Caller holds l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		refill := now.Sub(b.last).Seconds() * b.rule.Rate
		if b.tokens+refill >= float64(b.rule.Burst) {
			delete(l.buckets, key)
		}
	}
}

// Size reports how many sources are tracked.
func (l *RateLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
