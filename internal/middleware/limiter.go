package middleware

import (
	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter creates rate limiting middleware (supports dependency injection)
// RateLimiter 创建限流中间件，未命中规则的路由不限流
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		if bucket, ok := l.GetBucket(l.Key(c)); ok {
			if bucket.TakeAvailable(1) == 0 {
				c.Header("Retry-After", "1")
				app.NewResponse(c).ToErrorResponse(code.ErrorTooManyRequests)
				return
			}
		}

		c.Next()
	}
}
