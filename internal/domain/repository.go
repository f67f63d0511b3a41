// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	// GetByID 获取用户的分类（包含已删除），不存在或不属于该用户时返回 ErrNotFound
	GetByID(ctx context.Context, id string, uid int64) (*Category, error)

	// List 获取有效分类，按 order_index, created_at 升序
	List(ctx context.Context, uid int64) ([]*Category, error)

	// ListChangedSince 获取 updated_at > since 的分类（包含已删除），since 为 nil 时返回全部
	ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*Category, error)

	// Create 创建分类，id 冲突返回 ErrDuplicateKey
	Create(ctx context.Context, category *Category, uid int64) (*Category, error)

	// Update 更新可变字段并刷新 updated_at
	Update(ctx context.Context, category *Category, uid int64) (*Category, error)

	// SoftDelete 标记删除并刷新 updated_at
	SoftDelete(ctx context.Context, id string, uid int64) error

	// Count 统计所有用户的记录数
	Count(ctx context.Context) (EntityCount, error)
}

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 获取用户的笔记（包含已删除）
	GetByID(ctx context.Context, id string, uid int64) (*Note, error)

	// List 获取有效笔记，categoryID 非空时按分类过滤，按 created_at 升序
	List(ctx context.Context, uid int64, categoryID *string) ([]*Note, error)

	// ListChangedSince 获取 updated_at > since 的笔记（包含已删除）
	ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note, uid int64) (*Note, error)

	// Update 更新笔记
	Update(ctx context.Context, note *Note, uid int64) (*Note, error)

	// SoftDelete 标记删除
	SoftDelete(ctx context.Context, id string, uid int64) error

	// Count 统计记录数
	Count(ctx context.Context) (EntityCount, error)
}

// NoteItemRepository 笔记条目仓储接口，归属通过 note.user_id 判断
type NoteItemRepository interface {
	// GetByID 获取用户的条目（包含已删除）
	GetByID(ctx context.Context, id string, uid int64) (*NoteItem, error)

	// List 获取有效条目，noteID 非空时按笔记过滤，按 order_index, created_at 升序
	List(ctx context.Context, uid int64, noteID *string) ([]*NoteItem, error)

	// ListChangedSince 获取 updated_at > since 的条目（包含已删除）
	ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*NoteItem, error)

	// Create 创建条目
	Create(ctx context.Context, item *NoteItem, uid int64) (*NoteItem, error)

	// Update 更新条目
	Update(ctx context.Context, item *NoteItem, uid int64) (*NoteItem, error)

	// SoftDelete 标记删除
	SoftDelete(ctx context.Context, id string, uid int64) error

	// Count 统计记录数
	Count(ctx context.Context) (EntityCount, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create 创建用户，邮箱冲突返回 ErrDuplicateKey
	Create(ctx context.Context, user *User) (*User, error)

	// UpdatePassword 更新用户密码
	UpdatePassword(ctx context.Context, password string, uid int64) error

	// Count 统计用户数
	Count(ctx context.Context) (int64, error)

	// ListUIDs 按 uid 升序返回有效用户，afterUID 之后最多 limit 个
	ListUIDs(ctx context.Context, afterUID int64, limit int) ([]int64, error)
}
