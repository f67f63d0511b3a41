package domain

import "time"

// Category 分类领域模型，只对所属用户可见
type Category struct {
	ID          string
	UID         int64
	Name        string
	Description *string
	OrderIndex  int
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Note 笔记领域模型
// UID 在创建时从所属分类复制，不接受客户端输入
type Note struct {
	ID          string
	UID         int64
	CategoryID  string
	Title       string
	Description *string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteItem 笔记条目领域模型，归属通过 Note 传递
type NoteItem struct {
	ID          string
	NoteID      string
	Title       string
	Content     *string
	IsCompleted bool
	OrderIndex  int
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLive reports whether the category is not tombstoned
func (c *Category) IsLive() bool { return !c.IsDeleted }

// IsLive reports whether the note is not tombstoned
func (n *Note) IsLive() bool { return !n.IsDeleted }

// IsLive reports whether the item is not tombstoned
func (i *NoteItem) IsLive() bool { return !i.IsDeleted }

// ChangeSet rows changed after a sync cursor, tombstones included
// ChangeSet 同步游标之后变更的记录（包含已删除记录）
type ChangeSet struct {
	Categories []*Category
	Notes      []*Note
	NoteItems  []*NoteItem
	ServerTime time.Time
}

// EntityCount live and tombstoned row counts of one table
// EntityCount 单表的有效与已删除记录数
type EntityCount struct {
	Live       int64
	Tombstoned int64
}
