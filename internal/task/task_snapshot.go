package task

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/logger"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/storage"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/timex"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// snapshotFile 快照文件内容，data 与全量同步响应一致，包含墓碑
type snapshotFile struct {
	UID         int64        `json:"uid"`
	Version     string       `json:"version"`
	GeneratedAt timex.Time   `json:"generated_at"`
	Data        *dto.SyncDTO `json:"data"`
}

// SnapshotTask 按 cron 将每个用户的全量同步数据导出到存储后端，只读
type SnapshotTask struct {
	app       *app.App
	logger    *zap.Logger
	storage   storage.Storager
	spec      string
	prefix    string
	batchSize int
	now       func() time.Time
}

// Name 返回任务名称
func (t *SnapshotTask) Name() string {
	return "UserSnapshot"
}

// LoopInterval 由 cron 调度
func (t *SnapshotTask) LoopInterval() time.Duration {
	return 0
}

// IsStartupRun 是否立即执行一次
func (t *SnapshotTask) IsStartupRun() bool {
	return false
}

// CronSpec 返回 cron 表达式
func (t *SnapshotTask) CronSpec() string {
	return t.spec
}

// Run 分批导出所有有效用户，单个用户失败不影响其他用户
func (t *SnapshotTask) Run(ctx context.Context) error {
	generatedAt := t.now().UTC().Truncate(time.Second)

	var (
		after    int64
		exported int
		failed   int
		firstErr error
	)
	for {
		uids, err := t.app.UserRepo.ListUIDs(ctx, after, t.batchSize)
		if err != nil {
			return errors.Wrap(err, "list users")
		}

		for _, uid := range uids {
			if err := t.export(ctx, uid, generatedAt); err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				t.logger.Warn("task log",
					zap.String("task", t.Name()),
					zap.Int64(logger.FieldUID, uid),
					zap.Error(err))
				continue
			}
			exported++
		}

		if len(uids) < t.batchSize {
			break
		}
		after = uids[len(uids)-1]
	}

	t.logger.Info("task log",
		zap.String("task", t.Name()),
		zap.Int("exported", exported),
		zap.Int("failed", failed))

	if firstErr != nil {
		return errors.Wrapf(firstErr, "%d snapshots failed", failed)
	}
	return nil
}

func (t *SnapshotTask) export(ctx context.Context, uid int64, generatedAt time.Time) error {
	data, err := t.app.SyncService.Sync(ctx, uid, nil)
	if err != nil {
		return err
	}

	content, err := sonic.ConfigStd.Marshal(&snapshotFile{
		UID:         uid,
		Version:     app.Version,
		GeneratedAt: timex.Time(generatedAt),
		Data:        data,
	})
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	_, err = t.storage.SendContent(ctx, snapshotKey(t.prefix, uid, generatedAt), content, generatedAt)
	return err
}

// snapshotKey <prefix>/<uid>/<20060102T150405Z>.json
func snapshotKey(prefix string, uid int64, at time.Time) string {
	return path.Join(prefix, fmt.Sprintf("%d", uid), at.UTC().Format("20060102T150405Z")+".json")
}

// NewSnapshotTask 创建快照任务，未启用时返回 nil
func NewSnapshotTask(appContainer *app.App) (Task, error) {
	cfg := appContainer.Config().Snapshot
	if !cfg.Enabled {
		return nil, nil
	}

	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, errors.Wrapf(err, "snapshot cron %q", cfg.Cron)
	}

	st, err := storage.NewClient(&cfg.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot storage")
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}

	return &SnapshotTask{
		app:       appContainer,
		logger:    appContainer.Logger(),
		storage:   st,
		spec:      cfg.Cron,
		prefix:    cfg.Prefix,
		batchSize: batch,
		now:       time.Now,
	}, nil
}

func init() {
	RegisterWithApp(NewSnapshotTask)
}
