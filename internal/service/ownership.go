package service

import (
	"context"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
)

// OwnershipResolver 校验父级实体存在、未删除且归属当前用户
// 缺失、已删除与他人所有三种情况一律返回 NotFound，避免泄露记录是否存在
type OwnershipResolver interface {
	// ResolveCategory 解析分类，用于在其下创建笔记
	ResolveCategory(ctx context.Context, uid int64, categoryID string) (*domain.Category, error)

	// ResolveNote 解析笔记，用于在其下创建条目
	ResolveNote(ctx context.Context, uid int64, noteID string) (*domain.Note, error)
}

type ownershipResolver struct {
	categoryRepo domain.CategoryRepository
	noteRepo     domain.NoteRepository
}

// NewOwnershipResolver 创建 OwnershipResolver 实例
func NewOwnershipResolver(categoryRepo domain.CategoryRepository, noteRepo domain.NoteRepository) OwnershipResolver {
	return &ownershipResolver{categoryRepo: categoryRepo, noteRepo: noteRepo}
}

func (r *ownershipResolver) ResolveCategory(ctx context.Context, uid int64, categoryID string) (*domain.Category, error) {
	id, ok := canonicalID(categoryID)
	if !ok {
		return nil, code.ErrorNotFound
	}
	category, err := r.categoryRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	if !category.IsLive() || category.UID != uid {
		return nil, code.ErrorNotFound
	}
	return category, nil
}

func (r *ownershipResolver) ResolveNote(ctx context.Context, uid int64, noteID string) (*domain.Note, error) {
	id, ok := canonicalID(noteID)
	if !ok {
		return nil, code.ErrorNotFound
	}
	note, err := r.noteRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	if !note.IsLive() || note.UID != uid {
		return nil, code.ErrorNotFound
	}
	return note, nil
}
