package dto

import "github.com/NguyenHai-LETI/Sync-Note/pkg/timex"

// SyncRequest 增量同步请求参数
// updated_after 无法解析或为空时视为全量同步
type SyncRequest struct {
	UpdatedAfter string `form:"updated_after"`
}

// SyncDTO 增量同步响应，包含已删除记录
type SyncDTO struct {
	CategoriesChanged []*CategoryDTO `json:"categories_changed"`
	NotesChanged      []*NoteDTO     `json:"notes_changed"`
	NoteItemsChanged  []*NoteItemDTO `json:"note_items_changed"`
	ServerTime        timex.Time     `json:"server_time"`
}
