package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SignupLimiter is a fixed-window rate limit per client IP, backed by a
// redis counter. Redis being unavailable fails open so signups keep
// working during an outage.
func SignupLimiter(rdb *redis.Client, max int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("signup:%s", c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("Signup limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(max) {
			logger.Warn("Signup rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.Int64("count", count),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many signup attempts, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
