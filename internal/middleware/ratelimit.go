package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/cache"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	RedisClient *redis.Client
	Scope       string
	Limit       int
	Window      time.Duration
	KeyFunc     func(*gin.Context) string
}

// RateLimit 固定窗口限流中间件，Redis 不可用时放行
func RateLimit(cfg *RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.RedisClient == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		var key string
		if cfg.KeyFunc != nil {
			key = cfg.KeyFunc(c)
		} else {
			key = cache.BuildKey(cache.KeyPrefixRateLimit, cfg.Scope, c.ClientIP())
		}

		ctx := c.Request.Context()
		count, err := cache.IncrWithExpire(ctx, cfg.RedisClient, key, cfg.Window)
		if err != nil {
			logger.WithContext(ctx).Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		if int(count) > cfg.Limit {
			ttl, _ := cfg.RedisClient.TTL(ctx, key).Result()
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))

			response.TooManyRequests(c, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.Limit-int(count)))
		c.Next()
	}
}

// IPRateLimit 按客户端 IP 限流
func IPRateLimit(redisClient *redis.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		RedisClient: redisClient,
		Scope:       scope,
		Limit:       limit,
		Window:      window,
	})
}
