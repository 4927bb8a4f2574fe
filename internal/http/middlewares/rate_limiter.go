package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Fixed-window limiter, used on the register/login endpoints to slow down
// credential stuffing.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientBucket),
	}
}

// Middleware enforces the limit for a key derived per request.
func (rl *RateLimiter) Middleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		now := time.Now()

		rl.mu.Lock()

		b, ok := rl.clients[key]

		if !ok || now.After(b.windowEnd) {
			rl.clients[key] = &clientBucket{
				count:     1,
				windowEnd: now.Add(rl.window),
			}

			rl.mu.Unlock()
			c.Next()
			return
		}

		if b.count >= rl.limit {
			retryAfter := int(time.Until(b.windowEnd).Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			rl.mu.Unlock()

			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please try again shortly.",
			})

			return
		}

		b.count++
		rl.mu.Unlock()
		c.Next()
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// for authenticated endpoints: rate limit by userID if available
func KeyByUserOrIP(c *gin.Context) string {
	id, ok := CurrentUserID(c)

	if ok && id != "" {
		return "user:" + id
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
