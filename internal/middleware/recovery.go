package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件（支持依赖注入）
// panic 详情只写日志，客户端收到统一的 500 信封
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		defer func() {
			if err := recover(); err != nil {
				fields := []zap.Field{
					zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
					zap.String("router", path),
					zap.String(logger.FieldMethod, c.Request.Method),
					zap.String("query", query),
					zap.String("ip", c.ClientIP()),
					zap.String("user-agent", c.Request.UserAgent()),
					zap.String("stack", string(debug.Stack())),
				}
				if e, ok := err.(error); ok {
					fields = append(fields, zap.Error(e))
				} else {
					fields = append(fields, zap.String("panic_value", fmt.Sprintf("%v", err)))
				}
				lg.Error("Recovered from panic", fields...)

				app.NewResponse(c).ToErrorResponse(code.ErrorServerInternal)
			}
		}()

		c.Next()
	}
}
