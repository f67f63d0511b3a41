package middleware

import (
	"crypto/subtle"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// SimpleAuthTokenWithConfig 简单 Token 认证中间件，保护私有端口（metrics / pprof）
// authToken 为空时不校验
func SimpleAuthTokenWithConfig(authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authToken == "" {
			c.Next()
			return
		}

		token := app.StripBearer(requestToken(c))
		if token == "" {
			app.NewResponse(c).ToErrorResponse(code.ErrorNotUserAuthToken)
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(authToken)) != 1 {
			app.NewResponse(c).ToErrorResponse(code.ErrorInvalidUserAuthToken)
			return
		}
		c.Next()
	}
}
