package api_router

import (
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/util"

	"github.com/gin-gonic/gin"
)

// SyncHandler 增量同步处理器
type SyncHandler struct {
	*Handler
}

// NewSyncHandler 创建 SyncHandler 实例
func NewSyncHandler(a *app.App) *SyncHandler {
	return &SyncHandler{Handler: NewHandler(a)}
}

// Sync 返回 updated_at 严格晚于游标的记录（含已删除记录）
// 游标缺失或无法解析时返回全量数据
// @Summary Delta sync
// @Tags Sync
// @Security UserAuthToken
// @Produce json
// @Param updated_after query string false "ISO-8601 cursor"
// @Success 200 {object} pkgapp.Res{data=dto.SyncDTO} "Success"
// @Router /sync [get]
func (h *SyncHandler) Sync(c *gin.Context) {
	uid, ok := h.uid(c, "SyncHandler.Sync")
	if !ok {
		return
	}

	params := &dto.SyncRequest{}
	if valid, errs := pkgapp.BindQuery(c, params); !valid {
		pkgapp.NewResponse(c).ToErrorResponse(errs.ToCode())
		return
	}

	var since *time.Time
	if t, ok := util.ParseISOTime(params.UpdatedAfter); ok {
		since = &t
	}

	delta, err := h.App.SyncService.Sync(c.Request.Context(), uid, since)
	if err != nil {
		h.fail(c, "SyncHandler.Sync", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(delta))
}
