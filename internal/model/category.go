package model

import "time"

const TableNameCategory = "category"

// Category mapped from table <category>
type Category struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	UserID      int64     `gorm:"column:user_id;not null;index:idx_category_user_updated,priority:1" json:"userId" form:"userId"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name" form:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description" form:"description"`
	OrderIndex  int       `gorm:"column:order_index;not null;default:0" json:"orderIndex" form:"orderIndex"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false" json:"isDeleted" form:"isDeleted"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;precision:6;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;precision:6;autoUpdateTime:false;index:idx_category_user_updated,priority:2" json:"updatedAt" form:"updatedAt"`
}

// TableName Category's table name
func (*Category) TableName() string {
	return TableNameCategory
}
