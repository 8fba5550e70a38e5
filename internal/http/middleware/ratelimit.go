package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// sweepThreshold bounds the tracked client set before expired windows are pruned.
const sweepThreshold = 10000

type windowCounter struct {
	start time.Time
	count int
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// State is per process; used when Redis is not configured.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*windowCounter)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if len(clients) > sweepThreshold {
			for k, wc := range clients {
				if now.Sub(wc.start) > window {
					delete(clients, k)
				}
			}
		}
		wc, ok := clients[ip]
		if !ok || now.Sub(wc.start) > window {
			wc = &windowCounter{start: now}
			clients[ip] = wc
		}
		wc.count++
		count := wc.count
		mu.Unlock()

		if count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
