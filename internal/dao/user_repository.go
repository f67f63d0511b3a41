package dao

import (
	"context"
	"strings"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/model"

	"gorm.io/gorm"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		Password:  m.Password,
		IsDeleted: m.IsDeleted,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	var m model.User
	err := r.dao.WithContext(ctx).Where("uid = ? AND is_deleted = ?", uid, false).First(&m).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// GetByEmail 根据邮箱获取用户，邮箱不区分大小写
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m model.User
	err := r.dao.WithContext(ctx).Where("email = ? AND is_deleted = ?", strings.ToLower(email), false).First(&m).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(&m), nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ts := now()
	m := &model.User{
		Email:     strings.ToLower(user.Email),
		Password:  user.Password,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	// 用户尚无 uid，注册写入不经过写队列
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return nil, wrapError(err)
	}
	return r.toDomain(m), nil
}

// UpdatePassword 更新用户密码
func (r *userRepository) UpdatePassword(ctx context.Context, password string, uid int64) error {
	err := r.dao.ExecuteWrite(ctx, uid, func(db *gorm.DB) error {
		res := db.Model(&model.User{}).Where("uid = ?", uid).Updates(map[string]interface{}{
			"password":   password,
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

// Count 统计有效用户数
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.dao.WithContext(ctx).Model(&model.User{}).Where("is_deleted = ?", false).Count(&n).Error
	return n, wrapError(err)
}

// ListUIDs 分页列出有效用户 uid
func (r *userRepository) ListUIDs(ctx context.Context, afterUID int64, limit int) ([]int64, error) {
	var uids []int64
	err := r.dao.WithContext(ctx).Model(&model.User{}).
		Where("uid > ? AND is_deleted = ?", afterUID, false).
		Order("uid ASC").Limit(limit).
		Pluck("uid", &uids).Error
	return uids, wrapError(err)
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)
