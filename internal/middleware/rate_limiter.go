package middleware

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/xnftlabs/backend/internal/config"
)

// RateLimiter throttles ledger operations per client IP over a fixed
// Redis window. Payment webhooks are exempt: Stripe retries on 429 and
// the handler authenticates them by signature, not by origin.
func RateLimiter(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/api/v1/stripe/webhook" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "xnft:ratelimit:" + c.ClientIP()

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not take the ledger offline with it.
			log.Printf("WARN: rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			redisClient.Expire(ctx, key, cfg.RateLimitDuration)
		}

		remaining := cfg.RateLimitRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RateLimitRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > cfg.RateLimitRequests {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests",
				"retry_after": ttl.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
