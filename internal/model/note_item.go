package model

import "time"

const TableNameNoteItem = "note_item"

// NoteItem mapped from table <note_item>
// 没有 user 列，归属通过 note.user_id 关联查询
type NoteItem struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	NoteID      string    `gorm:"column:note_id;type:varchar(36);not null;index:idx_note_item_note" json:"noteId" form:"noteId"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title" form:"title"`
	Content     *string   `gorm:"column:content;type:text" json:"content" form:"content"`
	IsCompleted bool      `gorm:"column:is_completed;not null;default:false" json:"isCompleted" form:"isCompleted"`
	OrderIndex  int       `gorm:"column:order_index;not null;default:0" json:"orderIndex" form:"orderIndex"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false" json:"isDeleted" form:"isDeleted"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;precision:6;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;precision:6;autoUpdateTime:false;index:idx_note_item_updated" json:"updatedAt" form:"updatedAt"`
}

// TableName NoteItem's table name
func (*NoteItem) TableName() string {
	return TableNameNoteItem
}
