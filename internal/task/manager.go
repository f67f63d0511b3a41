package task

import (
	"context"

	"github.com/NguyenHai-LETI/Sync-Note/internal/app"

	"go.uber.org/zap"
)

// Manager 任务管理器，负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, appContainer *app.App) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger),
		logger:    logger,
		app:       appContainer,
	}
}

// RegisterTasks 通过已注册的工厂创建所有任务
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.app)
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			return err
		}
		if t == nil {
			continue
		}
		if err := m.scheduler.AddTask(t); err != nil {
			return err
		}
		m.logger.Info("task registered",
			zap.String("name", t.Name()),
			zap.Duration("interval", t.LoopInterval()))
	}
	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Stop 停止所有任务
func (m *Manager) Stop(ctx context.Context) error {
	return m.scheduler.Stop(ctx)
}
