package api_router

import (
	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 分类 API 路由处理器
type CategoryHandler struct {
	*Handler
}

// NewCategoryHandler 创建 CategoryHandler 实例
func NewCategoryHandler(a *app.App) *CategoryHandler {
	return &CategoryHandler{Handler: NewHandler(a)}
}

// List 当前用户未删除的分类，按 order_index 排序
// @Summary List categories
// @Tags Category
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.CategoryDTO} "Success"
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	uid, ok := h.uid(c, "CategoryHandler.List")
	if !ok {
		return
	}

	list, err := h.App.CategoryService.List(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, "CategoryHandler.List", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(list))
}

// Create 创建分类，id 可由客户端指定
// @Summary Create category
// @Tags Category
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.CategoryCreateRequest true "Category"
// @Success 201 {object} pkgapp.Res{data=dto.CategoryDTO} "Created"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Duplicate ID"
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	uid, ok := h.uid(c, "CategoryHandler.Create")
	if !ok {
		return
	}

	params := &dto.CategoryCreateRequest{}
	if !h.bind(c, "CategoryHandler.Create", params) {
		return
	}

	category, err := h.App.CategoryService.Create(c.Request.Context(), uid, params)
	if err != nil {
		h.fail(c, "CategoryHandler.Create", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Created.WithData(category))
}

// Update 全量更新分类
// @Summary Update category
// @Tags Category
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param params body dto.CategoryUpdateRequest true "Category"
// @Success 200 {object} pkgapp.Res{data=dto.CategoryDTO} "Success"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	uid, ok := h.uid(c, "CategoryHandler.Update")
	if !ok {
		return
	}

	params := &dto.CategoryUpdateRequest{}
	if !h.bind(c, "CategoryHandler.Update", params) {
		return
	}

	category, err := h.App.CategoryService.Update(c.Request.Context(), uid, c.Param("id"), params)
	if err != nil {
		h.fail(c, "CategoryHandler.Update", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(category))
}

// Delete 软删除分类，下属笔记不受影响
// @Summary Delete category
// @Tags Category
// @Security UserAuthToken
// @Param id path string true "Category ID"
// @Success 204 "Deleted"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	uid, ok := h.uid(c, "CategoryHandler.Delete")
	if !ok {
		return
	}

	if err := h.App.CategoryService.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, "CategoryHandler.Delete", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Deleted)
}
