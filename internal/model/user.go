package model

import "time"

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	UID       int64     `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_user_email" json:"email" form:"email"`
	Password  string    `gorm:"column:password;type:varchar(255);not null" json:"-" form:"password"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false" json:"isDeleted" form:"isDeleted"`
	CreatedAt time.Time `gorm:"column:created_at;not null;precision:6;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;precision:6;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
