package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupEvery = time.Minute
	limiterIdleTTL      = 3 * time.Minute
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter keeps one token bucket per client IP; idle buckets are
// dropped until ctx is done.
func NewIPRateLimiter(ctx context.Context, r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop(ctx)

	return i
}

func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		return v.(*client).touch()
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// double check
	if v, ok := i.ips.Load(ip); ok {
		return v.(*client).touch()
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

func (c *client) touch() *rate.Limiter {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
	return c.limiter
}

func (c *client) idleSince() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.lastSeen)
}

func (i *IPRateLimiter) cleanupLoop(ctx context.Context) {
	t := time.NewTicker(limiterCleanupEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			i.ips.Range(func(key, value any) bool {
				if value.(*client).idleSince() > limiterIdleTTL {
					i.ips.Delete(key)
				}
				return true
			})
		}
	}
}

func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(
				http.StatusTooManyRequests,
				gin.H{"error": "too many requests, try again later"},
			)
			return
		}
		c.Next()
	}
}

// UploadBodyLimit rejects bodies larger than maxBytes before the multipart
// form is parsed.
func UploadBodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(
				http.StatusRequestEntityTooLarge,
				gin.H{"error": "photo exceeds 10MB"},
			)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
