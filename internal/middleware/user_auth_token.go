package middleware

import (
	"strings"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// requestToken 依次从 Authorization 与 Token 的查询参数、请求头中读取凭证
func requestToken(c *gin.Context) string {
	for _, name := range []string{"Authorization", "Token"} {
		if s := c.GetHeader(name); s != "" {
			return s
		}
		if s, exist := c.GetQuery(name); exist && s != "" {
			return s
		}
		if s, exist := c.GetQuery(strings.ToLower(name)); exist && s != "" {
			return s
		}
	}
	return ""
}

// UserAuthTokenWithManager 用户 Token 认证中间件（使用注入的 TokenManager）
// 只接受 access 凭证，解析结果写入 app.UserTokenKey
func UserAuthTokenWithManager(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := app.StripBearer(requestToken(c))
		if token == "" {
			app.NewResponse(c).ToErrorResponse(code.ErrorNotUserAuthToken)
			return
		}

		user, err := tm.ParseAccess(token)
		if err != nil {
			app.NewResponse(c).ToErrorResponse(code.ErrorInvalidUserAuthToken)
			return
		}
		c.Set(app.UserTokenKey, user)

		c.Next()
	}
}
