package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/pinmark/pinmark-backend/internal/auth"
)

const maxTrackedClients = 10000

// RateLimiter hands out one token bucket per caller. Callers are keyed by user ID,
// or by client IP when the request is not authenticated.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *lru.Cache[string, *rate.Limiter]
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	cache, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limit: rate.Limit(rps), burst: burst, limiters: cache}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	if lim, ok := l.limiters.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if prev, ok, _ := l.limiters.PeekOrAdd(key, lim); ok {
		return prev
	}
	return lim
}

// Middleware rejects callers over their budget with 429 and a Retry-After hint.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := auth.UserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		lim := l.limiter(key)
		if !lim.Allow() {
			retry := time.Second
			if l.limit > 0 {
				retry = time.Duration(float64(time.Second) / float64(l.limit))
			}
			c.Header("Retry-After", retryAfterSeconds(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
