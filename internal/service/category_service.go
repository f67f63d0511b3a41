package service

import (
	"context"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
)

// CategoryService 定义分类业务服务接口
type CategoryService interface {
	// List 获取用户的有效分类
	List(ctx context.Context, uid int64) ([]*dto.CategoryDTO, error)

	// Create 创建分类，所有者取自当前用户
	Create(ctx context.Context, uid int64, params *dto.CategoryCreateRequest) (*dto.CategoryDTO, error)

	// Update 更新分类
	Update(ctx context.Context, uid int64, id string, params *dto.CategoryUpdateRequest) (*dto.CategoryDTO, error)

	// Delete 软删除分类，不级联笔记
	Delete(ctx context.Context, uid int64, id string) error
}

type categoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(categoryRepo domain.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, uid int64) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.List(ctx, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	return categoriesToDTO(categories), nil
}

func (s *categoryService) Create(ctx context.Context, uid int64, params *dto.CategoryCreateRequest) (*dto.CategoryDTO, error) {
	id, err := resolveID(params.ID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, &domain.Category{
		ID:          id,
		Name:        *params.Name,
		Description: params.Description,
		OrderIndex:  params.OrderIndex,
	}, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBWrite)
	}
	return categoryToDTO(category), nil
}

func (s *categoryService) Update(ctx context.Context, uid int64, id string, params *dto.CategoryUpdateRequest) (*dto.CategoryDTO, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, code.ErrorNotFound
	}

	current, err := s.categoryRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	if !current.IsLive() {
		return nil, code.ErrorNotFound
	}

	current.Name = *params.Name
	current.Description = params.Description.Apply(current.Description)
	if params.OrderIndex != nil {
		current.OrderIndex = *params.OrderIndex
	}

	category, err := s.categoryRepo.Update(ctx, current, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBWrite)
	}
	return categoryToDTO(category), nil
}

func (s *categoryService) Delete(ctx context.Context, uid int64, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return code.ErrorNotFound
	}
	return repoError(s.categoryRepo.SoftDelete(ctx, id, uid), code.ErrorDBWrite)
}
