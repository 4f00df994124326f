package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	rateLimitMax    = 30
	rateLimitWindow = time.Second
)

// AlertFunc is called when an unauthenticated client trips the rate limit.
type AlertFunc func(ip, path string)

// RateLimit returns a middleware that enforces a per-IP sliding-window rate
// limit on unauthenticated requests. The public surface is a bearer-code
// redemption endpoint, so unthrottled guessing would be an easy brute force.
func RateLimit(rdb *redis.Client, alert AlertFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowKey := time.Now().Unix()
		key := fmt.Sprintf("gate:rate_limit:%s:%d", ip, windowKey)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > rateLimitMax {
			if alert != nil {
				go alert(ip, c.Request.URL.Path)
			}
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":    0,
				"code":  http.StatusTooManyRequests,
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
