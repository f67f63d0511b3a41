package service

import (
	"context"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
)

// NoteItemService 定义笔记条目业务服务接口
type NoteItemService interface {
	// List 获取笔记下的有效条目；笔记不存在或不属于用户时返回空列表
	List(ctx context.Context, uid int64, noteID string) ([]*dto.NoteItemDTO, error)

	// Create 在笔记下创建条目，笔记需先通过归属校验
	Create(ctx context.Context, uid int64, noteID string, params *dto.NoteItemCreateRequest) (*dto.NoteItemDTO, error)

	// Update 整体更新条目（PUT）
	Update(ctx context.Context, uid int64, id string, params *dto.NoteItemUpdateRequest) (*dto.NoteItemDTO, error)

	// Patch 部分更新条目（PATCH）
	Patch(ctx context.Context, uid int64, id string, params *dto.NoteItemPatchRequest) (*dto.NoteItemDTO, error)

	// Delete 软删除条目
	Delete(ctx context.Context, uid int64, id string) error
}

type noteItemService struct {
	itemRepo domain.NoteItemRepository
	resolver OwnershipResolver
}

// NewNoteItemService 创建 NoteItemService 实例
func NewNoteItemService(itemRepo domain.NoteItemRepository, resolver OwnershipResolver) NoteItemService {
	return &noteItemService{itemRepo: itemRepo, resolver: resolver}
}

func (s *noteItemService) List(ctx context.Context, uid int64, noteID string) ([]*dto.NoteItemDTO, error) {
	id, ok := canonicalID(noteID)
	if !ok {
		return []*dto.NoteItemDTO{}, nil
	}
	items, err := s.itemRepo.List(ctx, uid, &id)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	return noteItemsToDTO(items), nil
}

func (s *noteItemService) Create(ctx context.Context, uid int64, noteID string, params *dto.NoteItemCreateRequest) (*dto.NoteItemDTO, error) {
	note, err := s.resolver.ResolveNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}

	id, err := resolveID(params.ID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.Create(ctx, &domain.NoteItem{
		ID:          id,
		NoteID:      note.ID,
		Title:       *params.Title,
		Content:     params.Content,
		IsCompleted: params.IsCompleted,
		OrderIndex:  params.OrderIndex,
	}, note.UID)
	if err != nil {
		return nil, repoError(err, code.ErrorDBWrite)
	}
	return noteItemToDTO(item), nil
}

func (s *noteItemService) Update(ctx context.Context, uid int64, id string, params *dto.NoteItemUpdateRequest) (*dto.NoteItemDTO, error) {
	return s.apply(ctx, uid, id, func(item *domain.NoteItem) {
		item.Title = *params.Title
		item.Content = params.Content.Apply(item.Content)
		if params.IsCompleted != nil {
			item.IsCompleted = *params.IsCompleted
		}
		if params.OrderIndex != nil {
			item.OrderIndex = *params.OrderIndex
		}
	})
}

func (s *noteItemService) Patch(ctx context.Context, uid int64, id string, params *dto.NoteItemPatchRequest) (*dto.NoteItemDTO, error) {
	return s.apply(ctx, uid, id, func(item *domain.NoteItem) {
		if params.Title != nil {
			item.Title = *params.Title
		}
		item.Content = params.Content.Apply(item.Content)
		if params.IsCompleted != nil {
			item.IsCompleted = *params.IsCompleted
		}
		if params.OrderIndex != nil {
			item.OrderIndex = *params.OrderIndex
		}
	})
}

// apply loads the live item, lets mutate change its fields and persists the result
func (s *noteItemService) apply(ctx context.Context, uid int64, id string, mutate func(*domain.NoteItem)) (*dto.NoteItemDTO, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, code.ErrorNotFound
	}

	current, err := s.itemRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	if !current.IsLive() {
		return nil, code.ErrorNotFound
	}

	mutate(current)

	item, err := s.itemRepo.Update(ctx, current, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBWrite)
	}
	return noteItemToDTO(item), nil
}

func (s *noteItemService) Delete(ctx context.Context, uid int64, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return code.ErrorNotFound
	}
	return repoError(s.itemRepo.SoftDelete(ctx, id, uid), code.ErrorDBWrite)
}
