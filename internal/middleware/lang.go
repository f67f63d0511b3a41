package middleware

import (
	"strings"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言来自 lang 查询参数或请求头，如 zh-CN / zh_cn / zh，未知语言回退到 en
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}

		lang = strings.ToLower(strings.ReplaceAll(lang, "-", "_"))
		base, _, _ := strings.Cut(lang, "_")

		trans, found := uni.GetTranslator(lang)
		if !found {
			trans, found = uni.GetTranslator(base)
		}
		if !found {
			trans, _ = uni.GetTranslator(code.FALLBACK_LNG)
		}
		c.Set("trans", trans)

		// 消息文本按 en / zh_cn 存储，语言只保存在当前请求上下文中
		if base == "zh" {
			lang = "zh_cn"
		}
		c.Set(app.ContextLangKey, lang)

		c.Next()
	}
}
