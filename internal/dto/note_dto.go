package dto

import "github.com/NguyenHai-LETI/Sync-Note/pkg/timex"

// NoteCreateRequest 在分类下创建笔记的请求参数
// 分类取自路由，请求体中的 category 与 user 一律忽略
type NoteCreateRequest struct {
	ID          string  `json:"id" binding:"omitempty,uuid"`
	Title       *string `json:"title" binding:"required,notblank,max=255"`
	Description *string `json:"description"`
}

// NoteUpdateRequest 更新笔记请求参数（PUT），分类不可变更
type NoteUpdateRequest struct {
	Title       *string        `json:"title" binding:"required,notblank,max=255"`
	Description NullableString `json:"description"`
}

// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	CreatedAt   timex.Time `json:"created_at"`
	UpdatedAt   timex.Time `json:"updated_at"`
	IsDeleted   bool       `json:"is_deleted"`
}
