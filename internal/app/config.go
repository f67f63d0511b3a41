// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/dao"
	pkgapp "github.com/NguyenHai-LETI/Sync-Note/pkg/app"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/logger"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/storage"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/tracer"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/util"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/workerpool"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "SYNC_NOTE_"

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug / release
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":8000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / expvar / pprof），为空不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:8001"`
	// PrivateAuthToken 私有端口访问令牌，为空不校验
	PrivateAuthToken string `yaml:"private-auth-token"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"sync-note-auth-token"`
	// TokenExpiry access token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"1d"`
	// RefreshTokenExpiry refresh token 过期时间
	RefreshTokenExpiry string `yaml:"refresh-token-expiry" default:"7d"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机 host:port
	Host string `yaml:"host"`
	// Replicas 只读副本 host:port 列表
	Replicas []string `yaml:"replicas"`
	// Name 数据库名
	Name string `yaml:"name"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// UserConfig 用户配置
type UserConfig struct {
	// RegisterIsEnable 注册是否启用
	RegisterIsEnable bool `yaml:"register-is-enable" default:"true"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认请求上下文超时时间（秒），0 为不限制
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// AuthRateLimit /auth 接口每个客户端每秒请求数，0 为不限流
	AuthRateLimit int64 `yaml:"auth-rate-limit" default:"10"`
	// StatsInterval 实体统计任务间隔
	StatsInterval string `yaml:"stats-interval" default:"1m"`

	// Worker Pool 配置（同步查询并发）
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"16"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用 Trace ID
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent jaeger agent 地址，为空不上报 span
	JaegerAgent string `yaml:"jaeger-agent"`
	// SampleRate 采样率
	SampleRate float64 `yaml:"sample-rate" default:"1"`
}

// SnapshotConfig 用户数据快照导出配置
type SnapshotConfig struct {
	// Enabled 是否启用定时快照
	Enabled bool `yaml:"enabled"`
	// Cron 标准五段 cron 表达式
	Cron string `yaml:"cron" default:"0 3 * * *"`
	// Prefix 快照对象键前缀
	Prefix string `yaml:"prefix" default:"snapshots"`
	// BatchSize 每批读取的用户数
	BatchSize int `yaml:"batch-size" default:"100"`
	// Storage 快照存储后端
	Storage storage.Config `yaml:"storage"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 不再二次填充默认值：defaults.Set 会把 YAML 中显式写入的 false 重置为 true
	// .env 文件可选，已存在的环境变量不会被覆盖
	for _, envFile := range []string{filepath.Join(filepath.Dir(realpath), ".env"), ".env"} {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, realpath, errors.Wrapf(err, "load env file %s failed", envFile)
		}
	}
	c.applyEnv()

	return c, realpath, nil
}

// applyEnv 使用 SYNC_NOTE_* 环境变量覆盖配置
func (c *AppConfig) applyEnv() {
	overrides := map[string]*string{
		"AUTH_TOKEN_KEY": &c.Security.AuthTokenKey,
		"DB_TYPE":        &c.Database.Type,
		"DB_DSN_HOST":    &c.Database.Host,
		"DB_USER":        &c.Database.UserName,
		"DB_PASSWORD":    &c.Database.Password,
		"DB_NAME":        &c.Database.Name,
		"HTTP_PORT":      &c.Server.HttpPort,
	}
	for name, field := range overrides {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
	if p := c.Server.HttpPort; p != "" && !strings.Contains(p, ":") {
		c.Server.HttpPort = ":" + p
	}
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetDatabaseConfig 获取 DAO 使用的数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		Charset:         c.Database.Charset,
		Replicas:        c.Database.Replicas,
		AutoMigrate:     c.Database.AutoMigrate,
		Tracing:         c.Tracer.JaegerAgent != "",
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// GetTracerConfig 获取 jaeger 配置
func (c *AppConfig) GetTracerConfig() tracer.Config {
	return tracer.Config{
		ServiceName:   ServiceName,
		AgentHostPort: c.Tracer.JaegerAgent,
		SampleRate:    c.Tracer.SampleRate,
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	return workerpool.Config{
		MaxWorkers: c.App.WorkerPoolMaxWorkers,
		QueueSize:  c.App.WorkerPoolQueueSize,
	}
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.Config{QueueCapacity: c.App.WriteQueueCapacity}

	if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
		cfg.WriteTimeout = timeout
	}
	if idleTime, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil {
		cfg.IdleTimeout = idleTime
	}

	return cfg
}

// GetTokenConfig 获取 Token 配置
func (c *AppConfig) GetTokenConfig() pkgapp.TokenConfig {
	cfg := pkgapp.TokenConfig{
		SecretKey: c.Security.AuthTokenKey,
		Issuer:    ServiceName,
	}
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil {
		cfg.Expiry = expiry
	}
	if expiry, err := util.ParseDuration(c.Security.RefreshTokenExpiry); err == nil {
		cfg.RefreshExpiry = expiry
	}
	return cfg
}

// GetContextTimeout 获取请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetStatsInterval 获取统计任务间隔
func (c *AppConfig) GetStatsInterval() time.Duration {
	if d, err := util.ParseDuration(c.App.StatsInterval); err == nil && d > 0 {
		return d
	}
	return time.Minute
}
