package model

import "time"

const TableNameNote = "note"

// Note mapped from table <note>
type Note struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	UserID      int64     `gorm:"column:user_id;not null;index:idx_note_user_updated,priority:1" json:"userId" form:"userId"`
	CategoryID  string    `gorm:"column:category_id;type:varchar(36);not null;index:idx_note_category" json:"categoryId" form:"categoryId"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title" form:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description" form:"description"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false" json:"isDeleted" form:"isDeleted"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;precision:6;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;precision:6;autoUpdateTime:false;index:idx_note_user_updated,priority:2" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
