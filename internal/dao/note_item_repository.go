package dao

import (
	"context"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/model"

	"gorm.io/gorm"
)

// noteItemRepository 实现 domain.NoteItemRepository 接口
// note_item 没有 user 列，所有查询都通过 note.user_id 限定范围
type noteItemRepository struct {
	dao *Dao
}

// NewNoteItemRepository 创建 NoteItemRepository 实例
func NewNoteItemRepository(dao *Dao) domain.NoteItemRepository {
	return &noteItemRepository{dao: dao}
}

func (r *noteItemRepository) toDomain(m *model.NoteItem) *domain.NoteItem {
	if m == nil {
		return nil
	}
	return &domain.NoteItem{
		ID:          m.ID,
		NoteID:      m.NoteID,
		Title:       m.Title,
		Content:     m.Content,
		IsCompleted: m.IsCompleted,
		OrderIndex:  m.OrderIndex,
		IsDeleted:   m.IsDeleted,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func (r *noteItemRepository) toDomainList(ms []*model.NoteItem) []*domain.NoteItem {
	out := make([]*domain.NoteItem, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out
}

// ownedNoteIDs 子查询：用户拥有的笔记 id（包含已删除的笔记）
func (r *noteItemRepository) ownedNoteIDs(db *gorm.DB, uid int64) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&model.Note{}).Select("id").Where("user_id = ?", uid)
}

func (r *noteItemRepository) owned(db *gorm.DB, uid int64) *gorm.DB {
	return db.Model(&model.NoteItem{}).Where("note_id IN (?)", r.ownedNoteIDs(db, uid))
}

// GetByID 获取用户的条目（包含已删除）
func (r *noteItemRepository) GetByID(ctx context.Context, id string, uid int64) (*domain.NoteItem, error) {
	var m model.NoteItem
	if err := r.owned(r.dao.WithContext(ctx), uid).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// List 获取有效条目，可按笔记过滤
func (r *noteItemRepository) List(ctx context.Context, uid int64, noteID *string) ([]*domain.NoteItem, error) {
	var ms []*model.NoteItem
	q := r.owned(r.dao.WithContext(ctx), uid).Where("is_deleted = ?", false)
	if noteID != nil {
		q = q.Where("note_id = ?", *noteID)
	}
	if err := q.Order("order_index ASC").Order("created_at ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomainList(ms), nil
}

// ListChangedSince 获取 updated_at > since 的条目，包含已删除
func (r *noteItemRepository) ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*domain.NoteItem, error) {
	var ms []*model.NoteItem
	q := r.owned(r.dao.WithContext(ctx), uid)
	if since != nil {
		q = q.Where("updated_at > ?", since.UTC())
	}
	if err := q.Order("updated_at ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomainList(ms), nil
}

// Create 创建条目，调用方需先确认笔记归属
func (r *noteItemRepository) Create(ctx context.Context, item *domain.NoteItem, uid int64) (*domain.NoteItem, error) {
	ts := now()
	m := &model.NoteItem{
		ID:          item.ID,
		NoteID:      item.NoteID,
		Title:       item.Title,
		Content:     item.Content,
		IsCompleted: item.IsCompleted,
		OrderIndex:  item.OrderIndex,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		return db.Create(m).Error
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(m), nil
}

// Update 更新条目可变字段
func (r *noteItemRepository) Update(ctx context.Context, item *domain.NoteItem, uid int64) (*domain.NoteItem, error) {
	var m model.NoteItem
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := r.owned(db, uid).
			Where("id = ? AND is_deleted = ?", item.ID, false).
			Updates(map[string]interface{}{
				"title":        item.Title,
				"content":      item.Content,
				"is_completed": item.IsCompleted,
				"order_index":  item.OrderIndex,
				"updated_at":   now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.owned(db, uid).Where("id = ?", item.ID).First(&m).Error
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// SoftDelete 标记删除
func (r *noteItemRepository) SoftDelete(ctx context.Context, id string, uid int64) error {
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := r.owned(db, uid).Where("id = ?", id).Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrapError(err)
}

// Count 统计全部条目
func (r *noteItemRepository) Count(ctx context.Context) (domain.EntityCount, error) {
	return countByTombstone(r.dao.WithContext(ctx).Model(&model.NoteItem{}))
}

// 确保 noteItemRepository 实现了 domain.NoteItemRepository 接口
var _ domain.NoteItemRepository = (*noteItemRepository)(nil)
