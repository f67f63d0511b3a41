package dao

import (
	"context"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/model"

	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:          m.ID,
		UID:         m.UserID,
		CategoryID:  m.CategoryID,
		Title:       m.Title,
		Description: m.Description,
		IsDeleted:   m.IsDeleted,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func (r *noteRepository) toDomainList(ms []*model.Note) []*domain.Note {
	out := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out
}

func (r *noteRepository) owned(db *gorm.DB, uid int64) *gorm.DB {
	return db.Model(&model.Note{}).Where("user_id = ?", uid)
}

// GetByID 获取用户的笔记（包含已删除）
func (r *noteRepository) GetByID(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	var m model.Note
	if err := r.owned(r.dao.WithContext(ctx), uid).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// List 获取有效笔记，可按分类过滤
func (r *noteRepository) List(ctx context.Context, uid int64, categoryID *string) ([]*domain.Note, error) {
	var ms []*model.Note
	q := r.owned(r.dao.WithContext(ctx), uid).Where("is_deleted = ?", false)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomainList(ms), nil
}

// ListChangedSince 获取 updated_at > since 的笔记，包含已删除
func (r *noteRepository) ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*domain.Note, error) {
	var ms []*model.Note
	q := r.owned(r.dao.WithContext(ctx), uid)
	if since != nil {
		q = q.Where("updated_at > ?", since.UTC())
	}
	if err := q.Order("updated_at ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomainList(ms), nil
}

// Create 创建笔记，user_id 取自参数 uid
func (r *noteRepository) Create(ctx context.Context, note *domain.Note, uid int64) (*domain.Note, error) {
	ts := now()
	m := &model.Note{
		ID:          note.ID,
		UserID:      uid,
		CategoryID:  note.CategoryID,
		Title:       note.Title,
		Description: note.Description,
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

// Update 更新标题与描述，分类不可变
func (r *noteRepository) Update(ctx context.Context, note *domain.Note, uid int64) (*domain.Note, error) {
	var m model.Note
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := r.owned(db, uid).
			Where("id = ? AND is_deleted = ?", note.ID, false).
			Updates(map[string]interface{}{
				"title":       note.Title,
				"description": note.Description,
				"updated_at":  now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.owned(db, uid).Where("id = ?", note.ID).First(&m).Error
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// SoftDelete 标记删除，不级联条目
func (r *noteRepository) SoftDelete(ctx context.Context, id string, uid int64) error {
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

// Count 统计全部用户的有效与已删除笔记
func (r *noteRepository) Count(ctx context.Context) (domain.EntityCount, error) {
	return countByTombstone(r.dao.WithContext(ctx).Model(&model.Note{}))
}

// 确保 noteRepository 实现了 domain.NoteRepository 接口
var _ domain.NoteRepository = (*noteRepository)(nil)
