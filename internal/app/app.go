// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/dao"
	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/middleware"
	"github.com/NguyenHai-LETI/Sync-Note/internal/service"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/tracer"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/workerpool"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/writequeue"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// 可观测性
	Tracer       opentracing.Tracer
	tracerCloser io.Closer
	Registry     *prometheus.Registry
	HTTPMetrics  *middleware.HTTPMetrics

	// Repository 层
	UserRepo     domain.UserRepository
	CategoryRepo domain.CategoryRepository
	NoteRepo     domain.NoteRepository
	NoteItemRepo domain.NoteItemRepository

	// Service 层
	Ownership       service.OwnershipResolver
	UserService     service.UserService
	CategoryService service.CategoryService
	NoteService     service.NoteService
	NoteItemService service.NoteItemService
	SyncService     service.SyncService

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	StartTime time.Time

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:    cfg,
		logger:    logger,
		DB:        db,
		StartTime: time.Now(),
	}

	t, closer, err := tracer.New(cfg.GetTracerConfig())
	if err != nil {
		return nil, err
	}
	a.Tracer, a.tracerCloser = t, closer

	// 每个容器使用独立的注册器，配置热重载后重建容器不会重复注册
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.HTTPMetrics = middleware.NewHTTPMetrics(ServiceName, a.Registry)

	// 初始化 Worker Pool（同步查询）
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(wqConfig, logger)

	// 初始化 DAO（使用依赖注入）
	a.Dao = dao.New(db, logger, dao.WithWriteQueue(a.writeQueueMgr))

	a.TokenManager = pkgapp.NewTokenManager(cfg.GetTokenConfig())

	// 初始化 Repository 层
	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.CategoryRepo = dao.NewCategoryRepository(a.Dao)
	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.NoteItemRepo = dao.NewNoteItemRepository(a.Dao)

	svcConfig := &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: cfg.User.RegisterIsEnable,
		},
	}

	// 初始化 Service 层（依赖注入）
	a.Ownership = service.NewOwnershipResolver(a.CategoryRepo, a.NoteRepo)
	a.UserService = service.NewUserService(a.UserRepo, a.TokenManager, logger, svcConfig)
	a.CategoryService = service.NewCategoryService(a.CategoryRepo)
	a.NoteService = service.NewNoteService(a.NoteRepo, a.Ownership)
	a.NoteItemService = service.NewNoteItemService(a.NoteItemRepo, a.Ownership)
	a.SyncService = service.NewSyncService(a.CategoryRepo, a.NoteRepo, a.NoteItemRepo, a.workerPool, logger)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", a.workerPool.GetMetrics().MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// Ping 检查数据库连接
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器，重复调用返回首次结果
// 按顺序关闭：Worker Pool -> Write Queue Manager -> Tracer -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown(ctx)
	})
	return a.shutdownErr
}

func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	a.logger.Info("Shutting down worker pool...")
	if err := a.workerPool.Shutdown(ctx); err != nil {
		a.logger.Warn("Worker pool shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
	}

	// 2. 关闭 Write Queue Manager（排空所有队列）
	a.logger.Info("Shutting down write queue manager...")
	if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
		a.logger.Warn("write queue manager shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
	}

	// 3. 刷新未上报的 span
	if a.tracerCloser != nil {
		if err := a.tracerCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("tracer close: %w", err))
		}
	}

	// 4. 关闭数据库连接
	if err := a.Dao.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	} else {
		a.logger.Info("Database connection closed")
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}
