package service

import (
	"context"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// List 获取分类下的有效笔记；分类不存在或不属于用户时返回空列表
	List(ctx context.Context, uid int64, categoryID string) ([]*dto.NoteDTO, error)

	// Get 获取单条有效笔记
	Get(ctx context.Context, uid int64, id string) (*dto.NoteDTO, error)

	// Create 在分类下创建笔记，分类需先通过归属校验
	Create(ctx context.Context, uid int64, categoryID string, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Update 更新笔记
	Update(ctx context.Context, uid int64, id string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// Delete 软删除笔记，不级联条目
	Delete(ctx context.Context, uid int64, id string) error
}

type noteService struct {
	noteRepo domain.NoteRepository
	resolver OwnershipResolver
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, resolver OwnershipResolver) NoteService {
	return &noteService{noteRepo: noteRepo, resolver: resolver}
}

func (s *noteService) List(ctx context.Context, uid int64, categoryID string) ([]*dto.NoteDTO, error) {
	id, ok := canonicalID(categoryID)
	if !ok {
		return []*dto.NoteDTO{}, nil
	}
	notes, err := s.noteRepo.List(ctx, uid, &id)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	return notesToDTO(notes), nil
}

func (s *noteService) Get(ctx context.Context, uid int64, id string) (*dto.NoteDTO, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, code.ErrorNotFound
	}
	note, err := s.noteRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	if !note.IsLive() {
		return nil, code.ErrorNotFound
	}
	return noteToDTO(note), nil
}

func (s *noteService) Create(ctx context.Context, uid int64, categoryID string, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	category, err := s.resolver.ResolveCategory(ctx, uid, categoryID)
	if err != nil {
		return nil, err
	}

	id, err := resolveID(params.ID)
	if err != nil {
		return nil, err
	}

	// 所有者取自已解析的分类
	note, err := s.noteRepo.Create(ctx, &domain.Note{
		ID:          id,
		CategoryID:  category.ID,
		Title:       *params.Title,
		Description: params.Description,
	}, category.UID)
	if err != nil {
		return nil, repoError(err, code.ErrorDBWrite)
	}
	return noteToDTO(note), nil
}

func (s *noteService) Update(ctx context.Context, uid int64, id string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, code.ErrorNotFound
	}

	current, err := s.noteRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	if !current.IsLive() {
		return nil, code.ErrorNotFound
	}

	current.Title = *params.Title
	current.Description = params.Description.Apply(current.Description)

	note, err := s.noteRepo.Update(ctx, current, uid)
	if err != nil {
		return nil, repoError(err, code.ErrorDBWrite)
	}
	return noteToDTO(note), nil
}

func (s *noteService) Delete(ctx context.Context, uid int64, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return code.ErrorNotFound
	}
	return repoError(s.noteRepo.SoftDelete(ctx, id, uid), code.ErrorDBWrite)
}
