// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/middleware"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	apperrors "github.com/NguyenHai-LETI/Sync-Note/pkg/errors"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind 解析并校验请求体，失败时直接输出 400
func (h *Handler) bind(c *gin.Context, method string, params interface{}) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Debug(method+".BindAndValid errs",
			zap.Error(errs),
			zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)))
		pkgapp.NewResponse(c).ToErrorResponse(errs.ToCode())
		return false
	}
	return true
}

// uid 获取当前用户 ID，认证中间件之后不应为 0
func (h *Handler) uid(c *gin.Context, method string) (int64, bool) {
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error(method + " err uid=0")
		pkgapp.NewResponse(c).ToErrorResponse(code.ErrorNotUserAuthToken)
		return 0, false
	}
	return uid, true
}

// fail 记录错误日志（包含 Trace ID）并输出统一错误响应
func (h *Handler) fail(c *gin.Context, method string, err error) {
	h.logError(c.Request.Context(), method, err)
	apperrors.ErrorResponse(c, err)
}

// logError records error log, including Trace ID
// logError 记录错误日志，包含 Trace ID；客户端错误只记 debug
func (h *Handler) logError(ctx context.Context, method string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	}
	if apperrors.ToCode(err).StatusCode() >= 500 {
		h.App.Logger().Error(method, fields...)
		return
	}
	h.App.Logger().Debug(method, fields...)
}
