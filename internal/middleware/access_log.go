package middleware

import (
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogWithLogger 创建访问日志中间件（支持依赖注入）
// 处理器通过 c.Error 记录的原始错误会一并输出
func AccessLogWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		startTime := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
			zap.String(logger.FieldMethod, c.Request.Method),
			zap.String("url", path+"?"+query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration(logger.FieldDuration, time.Since(startTime)),
			zap.String("ip", app.GetRequestIP(c)),
			zap.String("user-agent", c.Request.UserAgent()),
		}
		if uid := app.GetUID(c); uid > 0 {
			fields = append(fields, zap.Int64(logger.FieldUID, uid))
		}

		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
			if c.Writer.Status() >= 500 {
				lg.Error(path, fields...)
				return
			}
		}
		lg.Info(path, fields...)
	}
}
