package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	internalApp "github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dao"
	"github.com/NguyenHai-LETI/Sync-Note/internal/routers"
	"github.com/NguyenHai-LETI/Sync-Note/internal/task"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/fileurl"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/logger"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/safe_close"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultSecretKeys 需要告警的默认密钥
var defaultSecretKeys = []string{
	defaultAuthTokenKey,
	"",
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

type Server struct {
	logger            *zap.Logger
	config            *internalApp.AppConfig
	httpServer        *http.Server
	privateHttpServer *http.Server
	sc                *safe_close.SafeClose
	app               *internalApp.App
	tasks             *task.Manager

	failed       chan error
	shutdownOnce sync.Once
	shutdownErr  error
}

// checkSecurityConfigWithConfig 使用默认密钥时输出警告
func checkSecurityConfigWithConfig(cfg *internalApp.AppConfig, lg *zap.Logger) {
	for _, key := range defaultSecretKeys {
		if cfg.Security.AuthTokenKey != key {
			continue
		}
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("SECURITY WARNING: Using default secret key!")
		fmt.Println()
		fmt.Println("Please modify 'security.auth-token-key' in config.yaml")
		fmt.Println("or set " + internalApp.EnvPrefix + "AUTH_TOKEN_KEY.")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println()
		lg.Warn("Using default secret key - please change security.auth-token-key in config.yaml")
		return
	}
}

// NewServer 加载配置、创建应用容器并启动 HTTP 服务与定时任务
func NewServer(runEnv *runFlags) (*Server, error) {
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(runEnv.runMode) > 0 {
		appConfig.Server.RunMode = runEnv.runMode
	}
	if len(runEnv.port) > 0 {
		appConfig.Server.HttpPort = runEnv.port
		if !strings.Contains(runEnv.port, ":") {
			appConfig.Server.HttpPort = ":" + runEnv.port
		}
	}

	if len(appConfig.Server.RunMode) > 0 {
		gin.SetMode(appConfig.Server.RunMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := fileurl.EnsureDirs(0754, dbDirs(appConfig)...); err != nil {
		return nil, fmt.Errorf("initStorage: %w", err)
	}

	lg, err := logger.NewLogger(appConfig.GetLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	s := &Server{
		logger: lg,
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
		failed: make(chan error, 1),
	}

	checkSecurityConfigWithConfig(appConfig, s.logger)

	db, err := dao.NewDBEngineWithConfig(appConfig.GetDatabaseConfig(), s.logger)
	if err != nil {
		return nil, fmt.Errorf("initDatabase: %w", err)
	}

	s.app, err = internalApp.NewApp(appConfig, s.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create app container: %w", err)
	}

	uni, err := validator.Install(validator.NewCustomValidator())
	if err != nil {
		_ = s.app.Shutdown(context.Background())
		return nil, fmt.Errorf("initValidator: %w", err)
	}

	s.tasks = task.NewManager(s.logger, s.app)
	if err := s.tasks.RegisterTasks(); err != nil {
		s.logger.Error("failed to register tasks", zap.Error(err))
	}
	s.tasks.Start()

	s.logger.Warn(fmt.Sprintf("%s v%s Git: %s BuildTime: %s", internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))
	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	if httpAddr := appConfig.Server.HttpPort; len(httpAddr) > 0 {
		s.logger.Warn("api_router", zap.String("config.server.HttpPort", httpAddr))
		s.httpServer = &http.Server{
			Addr:           httpAddr,
			Handler:        routers.NewRouter(s.app, uni),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.serve("api service", s.httpServer)
	}

	if httpAddr := appConfig.Server.PrivateHttpListen; len(httpAddr) > 0 {
		s.logger.Info("api_router", zap.String("config.server.PrivateHttpListen", httpAddr))
		s.privateHttpServer = &http.Server{
			Addr: httpAddr,
			Handler: routers.NewPrivateRouterWithLogger(routers.PrivateRouterConfig{
				RunMode:   appConfig.Server.RunMode,
				AuthToken: appConfig.Server.PrivateAuthToken,
				Gatherer:  s.app.Registry,
			}, s.logger),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.serve("private api service", s.privateHttpServer)
	}

	return s, nil
}

// serve 在 safe_close 管理下运行 HTTP 服务，收到关闭信号后优雅停止
func (s *Server) serve(name string, srv *http.Server) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			if errors.Is(err, http.ErrServerClosed) {
				return
			}
			s.logger.Error(name+" err", zap.Error(err))
			select {
			case s.failed <- err:
			default:
			}
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error(name+" shutdown error", zap.Error(err))
			}
		}
	})
}

// Done 任一 HTTP 服务异常退出时收到其错误
func (s *Server) Done() <-chan error {
	return s.failed
}

// Shutdown 按顺序关闭：HTTP 服务 -> 定时任务 -> 应用容器（Worker Pool、写队列、数据库）
// 重复调用返回首次结果
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, DefaultShutdownTimeout)
			defer cancel()
		}

		var errs []error

		s.sc.SendCloseSignal(nil)
		select {
		case err := <-s.sc.WaitClosedWithChannel():
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("http servers: %w", ctx.Err()))
		}

		if err := s.tasks.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tasks: %w", err))
		}

		if err := s.app.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			s.logger.Info("App container shutdown gracefully")
		}

		_ = s.logger.Sync()
		s.shutdownErr = errors.Join(errs...)
	})
	return s.shutdownErr
}

// GetApp 获取 App Container
func (s *Server) GetApp() *internalApp.App {
	return s.app
}

// GetConfig 获取应用配置
func (s *Server) GetConfig() *internalApp.AppConfig {
	return s.config
}
