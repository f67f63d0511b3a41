package dao

import (
	"context"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/model"

	"gorm.io/gorm"
)

// categoryRepository 实现 domain.CategoryRepository 接口
type categoryRepository struct {
	dao *Dao
}

// NewCategoryRepository 创建 CategoryRepository 实例
func NewCategoryRepository(dao *Dao) domain.CategoryRepository {
	return &categoryRepository{dao: dao}
}

func (r *categoryRepository) toDomain(m *model.Category) *domain.Category {
	if m == nil {
		return nil
	}
	return &domain.Category{
		ID:          m.ID,
		UID:         m.UserID,
		Name:        m.Name,
		Description: m.Description,
		OrderIndex:  m.OrderIndex,
		IsDeleted:   m.IsDeleted,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func (r *categoryRepository) toDomainList(ms []*model.Category) []*domain.Category {
	out := make([]*domain.Category, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out
}

func (r *categoryRepository) owned(db *gorm.DB, uid int64) *gorm.DB {
	return db.Model(&model.Category{}).Where("user_id = ?", uid)
}

// GetByID 获取用户的分类（包含已删除）
func (r *categoryRepository) GetByID(ctx context.Context, id string, uid int64) (*domain.Category, error) {
	var m model.Category
	err := r.owned(r.dao.WithContext(ctx), uid).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// List 获取有效分类
func (r *categoryRepository) List(ctx context.Context, uid int64) ([]*domain.Category, error) {
	var ms []*model.Category
	err := r.owned(r.dao.WithContext(ctx), uid).
		Where("is_deleted = ?", false).
		Order("order_index ASC").Order("created_at ASC").Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomainList(ms), nil
}

// ListChangedSince 获取 updated_at > since 的分类，包含已删除
func (r *categoryRepository) ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*domain.Category, error) {
	var ms []*model.Category
	q := r.owned(r.dao.WithContext(ctx), uid)
	if since != nil {
		q = q.Where("updated_at > ?", since.UTC())
	}
	if err := q.Order("updated_at ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomainList(ms), nil
}

// Create 创建分类
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category, uid int64) (*domain.Category, error) {
	ts := now()
	m := &model.Category{
		ID:          category.ID,
		UserID:      uid,
		Name:        category.Name,
		Description: category.Description,
		OrderIndex:  category.OrderIndex,
		IsDeleted:   false,
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

// Update 更新可变字段，只作用于未删除的记录
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category, uid int64) (*domain.Category, error) {
	var m model.Category
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := r.owned(db, uid).
			Where("id = ? AND is_deleted = ?", category.ID, false).
			Updates(map[string]interface{}{
				"name":        category.Name,
				"description": category.Description,
				"order_index": category.OrderIndex,
				"updated_at":  now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.owned(db, uid).Where("id = ?", category.ID).First(&m).Error
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// SoftDelete 标记删除并刷新 updated_at，已删除的记录会再次刷新
func (r *categoryRepository) SoftDelete(ctx context.Context, id string, uid int64) error {
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

// Count 统计全部用户的有效与已删除分类
func (r *categoryRepository) Count(ctx context.Context) (domain.EntityCount, error) {
	return countByTombstone(r.dao.WithContext(ctx).Model(&model.Category{}))
}

// 确保 categoryRepository 实现了 domain.CategoryRepository 接口
var _ domain.CategoryRepository = (*categoryRepository)(nil)
