package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	internalApp "github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/fileurl"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/util"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultAuthTokenKey 内置配置中的占位密钥，首次生成配置时替换为随机值
const defaultAuthTokenKey = "sync-note-auth-token"

type runFlags struct {
	dir     string // 项目根目录
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 指定要使用的配置文件路径
}

// resolveConfigPath 按顺序查找配置文件，都不存在时写入内置默认配置
func resolveConfigPath(config string) string {
	if len(config) > 0 {
		return config
	}
	for _, candidate := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(candidate) {
			return candidate
		}
	}

	config = "config/config.yaml"
	content := strings.Replace(configDefault, defaultAuthTokenKey, util.GetRandomString(32), 1)
	created, err := fileurl.WriteIfAbsent(config, []byte(content), 0644)
	if err != nil {
		bootstrapLogger.Error("config file auto create error", zap.Error(err))
	} else if created {
		bootstrapLogger.Warn("config file not found, default config created", zap.String("path", config))
	}
	return config
}

// dbDirs 返回需要预先创建的目录
func dbDirs(cfg *internalApp.AppConfig) []string {
	dirs := []string{filepath.Dir(cfg.Log.File)}
	if cfg.Database.Type == "" || strings.HasPrefix(strings.ToLower(cfg.Database.Type), "sqlite") {
		if cfg.Database.Path != ":memory:" {
			dirs = append(dirs, filepath.Dir(cfg.Database.Path))
		}
	}
	return dirs
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
					return
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			runEnv.config = resolveConfigPath(runEnv.config)

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			reload := make(chan struct{}, 1)
			w := watcher.New()
			// 每个监听周期至多接收 1 个事件，只关心写入
			w.SetMaxEvents(1)
			w.FilterOps(watcher.Write)

			go func() {
				for {
					select {
					case event := <-w.Event:
						bootstrapLogger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
						select {
						case reload <- struct{}{}:
						default:
						}
					case err := <-w.Error:
						bootstrapLogger.Error("config watcher error", zap.Error(err))
					case <-w.Closed:
						return
					}
				}
			}()

			if err := w.Add(runEnv.config); err != nil {
				s.logger.Error("config watcher file error", zap.Error(err))
			}
			go func() {
				if err := w.Start(time.Second * 5); err != nil {
					bootstrapLogger.Error("config watcher start error", zap.Error(err))
				}
			}()
			defer w.Close()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			for {
				select {
				case <-reload:
					// 先完整关闭旧实例释放端口与数据库，再按新配置启动
					s.logger.Info("config changed, restarting service")
					if err := s.Shutdown(context.Background()); err != nil {
						s.logger.Error("shutdown before reload failed", zap.Error(err))
					}
					next, err := NewServer(runEnv)
					if err != nil {
						bootstrapLogger.Error("service restart err", zap.Error(err))
						return
					}
					s = next

				case err := <-s.Done():
					if err != nil {
						s.logger.Error("service stopped unexpectedly", zap.Error(err))
					}
					if err := s.Shutdown(context.Background()); err != nil {
						s.logger.Error("Shutdown completed with error", zap.Error(err))
					}
					return

				case <-quit:
					s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
					if err := s.Shutdown(context.Background()); err != nil {
						s.logger.Error("Shutdown completed with error", zap.Error(err))
					} else {
						s.logger.Info("Service has been shut down gracefully.")
					}
					return
				}
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}
