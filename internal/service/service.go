package service

import (
	"context"
	"errors"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	apperrors "github.com/NguyenHai-LETI/Sync-Note/pkg/errors"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/timex"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/workerpool"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/writequeue"

	"github.com/google/uuid"
)

// repoError converts a repository error into the code it renders as
// store failures keep their cause for the access log
func repoError(err error, fallback *code.Code) error {
	var dup *domain.DuplicateKeyError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return code.ErrorNotFound
	case errors.As(err, &dup):
		if dup.Field == "email" {
			return code.ErrorUserEmailExists.WithField("email")
		}
		return code.ErrorDuplicateID.WithField("id")
	case errors.Is(err, writequeue.ErrQueueFull),
		errors.Is(err, writequeue.ErrWriteTimeout),
		errors.Is(err, writequeue.ErrQueueClosed),
		errors.Is(err, workerpool.ErrPoolFull),
		errors.Is(err, workerpool.ErrPoolClosed):
		return apperrors.New(code.ErrorServerBusy, err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.New(code.ErrorServerBusy, err)
	}
	return apperrors.New(fallback, err)
}

// resolveID returns the client supplied id, or a fresh one when absent
func resolveID(id string) (string, error) {
	if id == "" {
		return uuid.NewString(), nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", code.ErrorInvalidParams.WithField("id", "Must be a valid UUID.")
	}
	// 统一为小写带连字符形式，避免同一 uuid 的不同写法绕过唯一约束
	return parsed.String(), nil
}

// canonicalID normalizes a path id to the stored form; ok is false when it cannot name a row
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func categoryToDTO(c *domain.Category) *dto.CategoryDTO {
	if c == nil {
		return nil
	}
	return &dto.CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		OrderIndex:  c.OrderIndex,
		CreatedAt:   timex.Time(c.CreatedAt),
		UpdatedAt:   timex.Time(c.UpdatedAt),
		IsDeleted:   c.IsDeleted,
	}
}

func noteToDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	return &dto.NoteDTO{
		ID:          n.ID,
		Category:    n.CategoryID,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   timex.Time(n.CreatedAt),
		UpdatedAt:   timex.Time(n.UpdatedAt),
		IsDeleted:   n.IsDeleted,
	}
}

func noteItemToDTO(i *domain.NoteItem) *dto.NoteItemDTO {
	if i == nil {
		return nil
	}
	return &dto.NoteItemDTO{
		ID:          i.ID,
		Note:        i.NoteID,
		Title:       i.Title,
		Content:     i.Content,
		IsCompleted: i.IsCompleted,
		OrderIndex:  i.OrderIndex,
		CreatedAt:   timex.Time(i.CreatedAt),
		UpdatedAt:   timex.Time(i.UpdatedAt),
		IsDeleted:   i.IsDeleted,
	}
}

func categoriesToDTO(in []*domain.Category) []*dto.CategoryDTO {
	out := make([]*dto.CategoryDTO, 0, len(in))
	for _, c := range in {
		out = append(out, categoryToDTO(c))
	}
	return out
}

func notesToDTO(in []*domain.Note) []*dto.NoteDTO {
	out := make([]*dto.NoteDTO, 0, len(in))
	for _, n := range in {
		out = append(out, noteToDTO(n))
	}
	return out
}

func noteItemsToDTO(in []*domain.NoteItem) []*dto.NoteItemDTO {
	out := make([]*dto.NoteItemDTO, 0, len(in))
	for _, i := range in {
		out = append(out, noteItemToDTO(i))
	}
	return out
}
