package service

import (
	"context"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/timex"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/workerpool"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncService 定义增量同步服务接口
type SyncService interface {
	// Changes 返回 updated_at > since 的全部记录（包含已删除），since 为 nil 时全量返回
	Changes(ctx context.Context, uid int64, since *time.Time) (*domain.ChangeSet, error)

	// Sync 与 Changes 相同，转换为响应结构
	Sync(ctx context.Context, uid int64, since *time.Time) (*dto.SyncDTO, error)
}

type syncService struct {
	categoryRepo domain.CategoryRepository
	noteRepo     domain.NoteRepository
	itemRepo     domain.NoteItemRepository
	pool         *workerpool.Pool
	logger       *zap.Logger
}

// NewSyncService 创建 SyncService 实例
// pool 限制同时执行的同步查询数量，为 nil 时直接执行
func NewSyncService(categoryRepo domain.CategoryRepository, noteRepo domain.NoteRepository, itemRepo domain.NoteItemRepository, pool *workerpool.Pool, logger *zap.Logger) SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &syncService{
		categoryRepo: categoryRepo,
		noteRepo:     noteRepo,
		itemRepo:     itemRepo,
		pool:         pool,
		logger:       logger,
	}
}

func (s *syncService) Changes(ctx context.Context, uid int64, since *time.Time) (*domain.ChangeSet, error) {
	var out *domain.ChangeSet
	run := func(ctx context.Context) error {
		cs, err := s.collect(ctx, uid, since)
		out = cs
		return err
	}

	var err error
	if s.pool != nil {
		err = s.pool.Submit(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return nil, repoError(err, code.ErrorDBQuery)
	}
	return out, nil
}

// collect runs the three scoped queries concurrently; any failure fails the whole delta
func (s *syncService) collect(ctx context.Context, uid int64, since *time.Time) (*domain.ChangeSet, error) {
	var cursor *time.Time
	if since != nil {
		t := since.UTC()
		cursor = &t
	}

	cs := &domain.ChangeSet{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.categoryRepo.ListChangedSince(gctx, uid, cursor)
		cs.Categories = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.noteRepo.ListChangedSince(gctx, uid, cursor)
		cs.Notes = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.itemRepo.ListChangedSince(gctx, uid, cursor)
		cs.NoteItems = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cs.ServerTime = timex.Normalize(time.Now())

	s.logger.Debug("sync delta",
		zap.Int64("uid", uid),
		zap.Timep("since", cursor),
		zap.Int("categories", len(cs.Categories)),
		zap.Int("notes", len(cs.Notes)),
		zap.Int("noteItems", len(cs.NoteItems)))

	return cs, nil
}

func (s *syncService) Sync(ctx context.Context, uid int64, since *time.Time) (*dto.SyncDTO, error) {
	cs, err := s.Changes(ctx, uid, since)
	if err != nil {
		return nil, err
	}
	return &dto.SyncDTO{
		CategoriesChanged: categoriesToDTO(cs.Categories),
		NotesChanged:      notesToDTO(cs.Notes),
		NoteItemsChanged:  noteItemsToDTO(cs.NoteItems),
		ServerTime:        timex.Time(cs.ServerTime),
	}, nil
}
