package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"campus-library/internal/infra/redis"
	"campus-library/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

type RateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, cfg: cfg}
}

// API limits general traffic per client IP.
func (rl *RateLimiter) API() gin.HandlerFunc {
	return rl.limit("api", rl.cfg.APIMax, rl.cfg.APIWindow)
}

// Auth applies the tighter window for credential endpoints.
func (rl *RateLimiter) Auth() gin.HandlerFunc {
	return rl.limit("auth", rl.cfg.AuthMax, rl.cfg.AuthWindow)
}

func (rl *RateLimiter) limit(scope string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.cfg.Enabled || rl.client == nil {
			c.Next()
			return
		}

		allowed, err := rl.client.FixedWindowAllow(c.Request.Context(), scope+":"+c.ClientIP(), int64(max), window)
		if err != nil {
			// Redis trouble must not take the API down with it.
			slog.Warn("rate limiter unavailable", "scope", scope, "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
