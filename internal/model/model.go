// Package model 定义数据模型
package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Tables 所有需要迁移的模型，父表在前
var Tables = []string{"User", "Category", "Note", "NoteItem"}

// AutoMigrate 按名称迁移模型
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "User":
		return db.AutoMigrate(User{})
	case "Category":
		return db.AutoMigrate(Category{})
	case "Note":
		return db.AutoMigrate(Note{})
	case "NoteItem":
		return db.AutoMigrate(NoteItem{})
	}
	return fmt.Errorf("unknown model %q", key)
}

// AutoMigrateAll 迁移全部模型
func AutoMigrateAll(db *gorm.DB) error {
	for _, key := range Tables {
		if err := AutoMigrate(db, key); err != nil {
			return fmt.Errorf("migrate %s: %w", key, err)
		}
	}
	return nil
}
