package middleware

import (
	"net/http"
	"sync"
	"time"

	"pabrikku-be/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate limit tiers.
const (
	// Login and registration.
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Everything else.
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterPool struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

func newLimiterPool() *limiterPool {
	p := &limiterPool{visitors: make(map[string]*visitor)}
	go p.cleanup()
	return p
}

func (p *limiterPool) get(key string, r rate.Limit, b int) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, exists := p.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		p.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup removes stale entries so the map does not grow unbounded.
func (p *limiterPool) cleanup() {
	for {
		time.Sleep(time.Minute)

		p.mu.Lock()
		for key, v := range p.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(p.visitors, key)
			}
		}
		p.mu.Unlock()
	}
}

var pool = newLimiterPool()

// RateLimit buckets by authenticated user when available, falling back
// to client IP for anonymous requests.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		if userID, ok := utils.GetUserIDFromContext(c.Request.Context()); ok {
			key = "user:" + userID.String()
		} else {
			key = "ip:" + c.ClientIP()
		}

		if !pool.get(key, limit, burst).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// RateLimitStrict is for credential endpoints.
func RateLimitStrict() gin.HandlerFunc {
	return RateLimit(limitStrict, burstStrict)
}

// RateLimitGeneral is the default tier for API routes.
func RateLimitGeneral() gin.HandlerFunc {
	return RateLimit(limitGeneral, burstGeneral)
}
