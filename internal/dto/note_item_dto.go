package dto

import "github.com/NguyenHai-LETI/Sync-Note/pkg/timex"

// NoteItemCreateRequest 在笔记下创建条目的请求参数
type NoteItemCreateRequest struct {
	ID          string  `json:"id" binding:"omitempty,uuid"`
	Title       *string `json:"title" binding:"required,notblank,max=255"`
	Content     *string `json:"content"`
	IsCompleted bool    `json:"is_completed"`
	OrderIndex  int     `json:"order_index"`
}

// NoteItemUpdateRequest 更新条目请求参数（PUT）
type NoteItemUpdateRequest struct {
	Title       *string        `json:"title" binding:"required,notblank,max=255"`
	Content     NullableString `json:"content"`
	IsCompleted *bool          `json:"is_completed"`
	OrderIndex  *int           `json:"order_index"`
}

// NoteItemPatchRequest 部分更新条目请求参数（PATCH），所有字段可选
type NoteItemPatchRequest struct {
	Title       *string        `json:"title" binding:"omitempty,notblank,max=255"`
	Content     NullableString `json:"content"`
	IsCompleted *bool          `json:"is_completed"`
	OrderIndex  *int           `json:"order_index"`
}

// NoteItemDTO 条目数据传输对象
type NoteItemDTO struct {
	ID          string     `json:"id"`
	Note        string     `json:"note"`
	Title       string     `json:"title"`
	Content     *string    `json:"content"`
	IsCompleted bool       `json:"is_completed"`
	OrderIndex  int        `json:"order_index"`
	CreatedAt   timex.Time `json:"created_at"`
	UpdatedAt   timex.Time `json:"updated_at"`
	IsDeleted   bool       `json:"is_deleted"`
}
