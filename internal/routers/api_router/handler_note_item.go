package api_router

import (
	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoteItemHandler 笔记条目 API 路由处理器
type NoteItemHandler struct {
	*Handler
}

// NewNoteItemHandler 创建 NoteItemHandler 实例
func NewNoteItemHandler(a *app.App) *NoteItemHandler {
	return &NoteItemHandler{Handler: NewHandler(a)}
}

// List 笔记下未删除的条目
// @Summary List items of a note
// @Tags NoteItem
// @Security UserAuthToken
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.NoteItemDTO} "Success"
// @Router /notes/{id}/items [get]
func (h *NoteItemHandler) List(c *gin.Context) {
	uid, ok := h.uid(c, "NoteItemHandler.List")
	if !ok {
		return
	}

	list, err := h.App.NoteItemService.List(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.fail(c, "NoteItemHandler.List", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(list))
}

// Create 在笔记下创建条目，笔记须存在、未删除且属于当前用户
// @Summary Create item
// @Tags NoteItem
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param params body dto.NoteItemCreateRequest true "Item"
// @Success 201 {object} pkgapp.Res{data=dto.NoteItemDTO} "Created"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /notes/{id}/items [post]
func (h *NoteItemHandler) Create(c *gin.Context) {
	uid, ok := h.uid(c, "NoteItemHandler.Create")
	if !ok {
		return
	}

	params := &dto.NoteItemCreateRequest{}
	if !h.bind(c, "NoteItemHandler.Create", params) {
		return
	}

	item, err := h.App.NoteItemService.Create(c.Request.Context(), uid, c.Param("id"), params)
	if err != nil {
		h.fail(c, "NoteItemHandler.Create", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Created.WithData(item))
}

// Update 全量更新条目
// @Summary Update item
// @Tags NoteItem
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param params body dto.NoteItemUpdateRequest true "Item"
// @Success 200 {object} pkgapp.Res{data=dto.NoteItemDTO} "Success"
// @Router /items/{id} [put]
func (h *NoteItemHandler) Update(c *gin.Context) {
	uid, ok := h.uid(c, "NoteItemHandler.Update")
	if !ok {
		return
	}

	params := &dto.NoteItemUpdateRequest{}
	if !h.bind(c, "NoteItemHandler.Update", params) {
		return
	}

	item, err := h.App.NoteItemService.Update(c.Request.Context(), uid, c.Param("id"), params)
	if err != nil {
		h.fail(c, "NoteItemHandler.Update", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(item))
}

// Patch 部分更新条目，只修改请求中出现的字段
// @Summary Patch item
// @Tags NoteItem
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param params body dto.NoteItemPatchRequest true "Item"
// @Success 200 {object} pkgapp.Res{data=dto.NoteItemDTO} "Success"
// @Router /items/{id} [patch]
func (h *NoteItemHandler) Patch(c *gin.Context) {
	uid, ok := h.uid(c, "NoteItemHandler.Patch")
	if !ok {
		return
	}

	params := &dto.NoteItemPatchRequest{}
	if !h.bind(c, "NoteItemHandler.Patch", params) {
		return
	}

	item, err := h.App.NoteItemService.Patch(c.Request.Context(), uid, c.Param("id"), params)
	if err != nil {
		h.fail(c, "NoteItemHandler.Patch", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(item))
}

// Delete 软删除条目
// @Summary Delete item
// @Tags NoteItem
// @Security UserAuthToken
// @Param id path string true "Item ID"
// @Success 204 "Deleted"
// @Router /items/{id} [delete]
func (h *NoteItemHandler) Delete(c *gin.Context) {
	uid, ok := h.uid(c, "NoteItemHandler.Delete")
	if !ok {
		return
	}

	if err := h.App.NoteItemService.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, "NoteItemHandler.Delete", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Deleted)
}
