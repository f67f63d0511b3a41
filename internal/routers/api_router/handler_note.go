package api_router

import (
	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoteHandler 笔记 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// List 分类下未删除的笔记；分类不存在或不属于当前用户时返回空列表
// @Summary List notes of a category
// @Tags Note
// @Security UserAuthToken
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.NoteDTO} "Success"
// @Router /categories/{id}/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.List")
	if !ok {
		return
	}

	list, err := h.App.NoteService.List(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.fail(c, "NoteHandler.List", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(list))
}

// Create 在分类下创建笔记，分类须存在、未删除且属于当前用户
// @Summary Create note
// @Tags Note
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param params body dto.NoteCreateRequest true "Note"
// @Success 201 {object} pkgapp.Res{data=dto.NoteDTO} "Created"
// @Failure 404 {object} pkgapp.Res "Category Not Found"
// @Router /categories/{id}/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.Create")
	if !ok {
		return
	}

	params := &dto.NoteCreateRequest{}
	if !h.bind(c, "NoteHandler.Create", params) {
		return
	}

	note, err := h.App.NoteService.Create(c.Request.Context(), uid, c.Param("id"), params)
	if err != nil {
		h.fail(c, "NoteHandler.Create", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Created.WithData(note))
}

// Get 获取单条笔记
// @Summary Get note
// @Tags Note
// @Security UserAuthToken
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.Get")
	if !ok {
		return
	}

	note, err := h.App.NoteService.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.fail(c, "NoteHandler.Get", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// Update 全量更新笔记
// @Summary Update note
// @Tags Note
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param params body dto.NoteUpdateRequest true "Note"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.Update")
	if !ok {
		return
	}

	params := &dto.NoteUpdateRequest{}
	if !h.bind(c, "NoteHandler.Update", params) {
		return
	}

	note, err := h.App.NoteService.Update(c.Request.Context(), uid, c.Param("id"), params)
	if err != nil {
		h.fail(c, "NoteHandler.Update", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// Delete 软删除笔记，下属条目不受影响
// @Summary Delete note
// @Tags Note
// @Security UserAuthToken
// @Param id path string true "Note ID"
// @Success 204 "Deleted"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.Delete")
	if !ok {
		return
	}

	if err := h.App.NoteService.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, "NoteHandler.Delete", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Deleted)
}
