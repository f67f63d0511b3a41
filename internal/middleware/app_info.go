package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	AppNameKey    = "app_name"
	AppVersionKey = "app_version"
)

// AppInfoWithConfig 写入应用名称与版本（支持依赖注入）
func AppInfoWithConfig(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(AppNameKey, name)
		c.Set(AppVersionKey, version)
		c.Header("X-App-Version", version)

		c.Next()
	}
}
