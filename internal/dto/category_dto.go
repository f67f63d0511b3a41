package dto

import "github.com/NguyenHai-LETI/Sync-Note/pkg/timex"

// CategoryCreateRequest 创建分类请求参数，id 可由客户端指定
type CategoryCreateRequest struct {
	ID          string  `json:"id" binding:"omitempty,uuid"`
	Name        *string `json:"name" binding:"required,notblank,max=255"`
	Description *string `json:"description"`
	OrderIndex  int     `json:"order_index"`
}

// CategoryUpdateRequest 更新分类请求参数（PUT）
// 未出现的可选字段保留原值；id、时间戳与 is_deleted 忽略
type CategoryUpdateRequest struct {
	Name        *string        `json:"name" binding:"required,notblank,max=255"`
	Description NullableString `json:"description"`
	OrderIndex  *int           `json:"order_index"`
}

// CategoryDTO 分类数据传输对象
type CategoryDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	OrderIndex  int        `json:"order_index"`
	CreatedAt   timex.Time `json:"created_at"`
	UpdatedAt   timex.Time `json:"updated_at"`
	IsDeleted   bool       `json:"is_deleted"`
}
