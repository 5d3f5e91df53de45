package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type LimiterConfig struct {
	RPS     float64
	Burst   int
	IdleTTL time.Duration
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key in memory.
type RateLimiter struct {
	conf    LimiterConfig
	mu      sync.Mutex
	buckets map[string]*keyLimiter
}

func NewRateLimiter(conf LimiterConfig) *RateLimiter {
	if conf.Burst <= 0 {
		conf.Burst = 1
	}
	if conf.IdleTTL <= 0 {
		conf.IdleTTL = 10 * time.Minute
	}
	return &RateLimiter{conf: conf, buckets: make(map[string]*keyLimiter)}
}

// Allow consumes one token for key.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &keyLimiter{limiter: rate.NewLimiter(rate.Limit(rl.conf.RPS), rl.conf.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than IdleTTL.
func (rl *RateLimiter) Sweep() {
	cutoff := time.Now().Add(-rl.conf.IdleTTL)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Size returns the number of tracked keys.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Middleware limits requests per client IP. A limiter with RPS <= 0 lets
// everything through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.conf.RPS <= 0 {
			c.Next()
			return
		}
		if !rl.Allow(c.ClientIP()) {
			RespondWithError(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
