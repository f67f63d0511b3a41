// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string  `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string  `json:"version"`  // 服务版本号
	Uptime   float64 `json:"uptime"`   // 运行时间（秒）
	Database string  `json:"database"` // "connected" 或 "error"
}

// Check 健康检查接口，数据库不可用时返回 503
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
	}

	if err := h.App.Ping(c.Request.Context()); err != nil {
		h.logError(c.Request.Context(), "HealthHandler.Check", err)
		pkgapp.NewResponse(c).ToErrorResponse(code.ErrorServerBusy.WithDetail("database unavailable"))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
