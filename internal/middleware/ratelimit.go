package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// UploadLimiter throttles expensive upload endpoints per caller. Keys are
// user ids for authenticated requests and client IPs otherwise.
type UploadLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUploadLimiter allows ratePerMinute uploads per key with the given
// burst.
func NewUploadLimiter(ratePerMinute, burst int) *UploadLimiter {
	ul := &UploadLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(ratePerMinute) / 60.0),
		burst:    burst,
	}
	go ul.cleanup()
	return ul
}

func (ul *UploadLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(ContextUserID)
		if key == "" {
			key = c.ClientIP()
		}

		if !ul.allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"statusCode": http.StatusTooManyRequests,
				"message":    "too many uploads, slow down",
				"success":    false,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (ul *UploadLimiter) allow(key string) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	entry, ok := ul.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(ul.limit, ul.burst)}
		ul.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (ul *UploadLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ul.mu.Lock()
		cutoff := time.Now().Add(-30 * time.Minute)
		for key, entry := range ul.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(ul.limiters, key)
			}
		}
		ul.mu.Unlock()
	}
}
