package task

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔，<= 0 时只在启动时执行
	IsStartupRun() bool            // 是否立即执行一次
}

// CronTask 按 cron 表达式调度的任务，CronSpec 非空时优先于 LoopInterval
type CronTask interface {
	Task
	CronSpec() string
}

// Scheduler 基于 cron 的任务调度器
// 同一任务上一轮未结束时跳过本轮，任务 panic 被记录后恢复
type Scheduler struct {
	logger *zap.Logger
	cron   *cron.Cron
	tasks  []Task

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		logger: logger,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		tasks:  make([]Task, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddTask 添加任务，必须在 Start 之前调用
func (s *Scheduler) AddTask(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ct, ok := task.(CronTask); ok && ct.CronSpec() != "" {
		schedule, err := cron.ParseStandard(ct.CronSpec())
		if err != nil {
			return errors.Wrapf(err, "task %s: parse cron %q", task.Name(), ct.CronSpec())
		}
		s.cron.Schedule(schedule, s.job(task, "cronRun"))
	} else if task.LoopInterval() > 0 {
		s.cron.Schedule(cron.Every(task.LoopInterval()), s.job(task, "loopRun"))
	}

	s.tasks = append(s.tasks, task)
	return nil
}

// Tasks 返回已添加的任务
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}
	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		if !task.IsStartupRun() {
			continue
		}
		run := s.job(task, "startupRun")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			run.Run()
		}()
	}
	s.cron.Start()
}

// Stop 停止调度并等待运行中的任务结束，ctx 到期后直接返回
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("tasks stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// job 将任务包装为 cron.Job，startupRun 同样经过 panic 恢复
func (s *Scheduler) job(task Task, kind string) cron.Job {
	return cron.FuncJob(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("task panic",
					zap.String("name", task.Name()),
					zap.String("type", kind),
					zap.Any("panic", r),
					zap.Stack("stack"))
			}
		}()

		if s.ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := task.Run(s.ctx); err != nil {
			s.logger.Error("task running error",
				zap.String("name", task.Name()),
				zap.String("type", kind),
				zap.Error(err))
			return
		}
		s.logger.Debug("task done",
			zap.String("name", task.Name()),
			zap.String("type", kind),
			zap.Duration("duration", time.Since(start)))
	})
}

// cronLogger 将 cron 内部日志接入 zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
