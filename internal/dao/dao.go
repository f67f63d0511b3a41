// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/model"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/fileurl"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/util"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// DatabaseConfig 数据库配置（由 internal/app 转换传入）
type DatabaseConfig struct {
	Type            string   // sqlite / mysql / postgres
	Path            string   // SQLite 数据库文件路径，":memory:" 为内存库
	UserName        string   // 用户名
	Password        string   // 密码
	Host            string   // host:port
	Name            string   // 数据库名
	Charset         string   // MySQL 字符集
	Replicas        []string // 只读副本 host:port，共用账号与库名
	AutoMigrate     bool     // 启动时自动迁移
	Tracing         bool     // 为 SQL 启用 opentracing span
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// Dao 数据访问对象，持有数据库连接与按用户串行化的写队列
type Dao struct {
	Db         *gorm.DB
	logger     *zap.Logger
	writeQueue *writequeue.Manager
}

// Option Dao 配置项
type Option func(*Dao)

// WithWriteQueue 写操作经由写队列按用户串行执行
func WithWriteQueue(wq *writequeue.Manager) Option {
	return func(d *Dao) {
		d.writeQueue = wq
	}
}

// New 创建 Dao
func New(db *gorm.DB, lg *zap.Logger, opts ...Option) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	d := &Dao{Db: db, logger: lg}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithContext 返回绑定 ctx 的会话
func (d *Dao) WithContext(ctx context.Context) *gorm.DB {
	return d.Db.WithContext(ctx)
}

// ExecuteWrite 执行写操作；配置了写队列时同一用户的写操作串行执行
func (d *Dao) ExecuteWrite(ctx context.Context, uid int64, fn func(db *gorm.DB) error) error {
	if d.writeQueue == nil {
		return fn(d.Db.WithContext(ctx))
	}
	return d.writeQueue.Execute(ctx, uid, func(ctx context.Context) error {
		return fn(d.Db.WithContext(ctx))
	})
}

// NewDBEngineWithConfig 打开数据库连接并配置连接池、只读副本与 SQL 追踪
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	dialector, err := openDialector(c, c.Host)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if isSQLite(c.Type) {
		// SQLite 单连接：单写者，且内存库只存在于该连接中
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		if d, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && d > 0 {
			sqlDB.SetConnMaxLifetime(d)
		}
		if d, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && d > 0 {
			sqlDB.SetConnMaxIdleTime(d)
		}
	}

	if len(c.Replicas) > 0 && !isSQLite(c.Type) {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, host := range c.Replicas {
			r, err := openDialector(c, host)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, r)
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register replicas: %w", err)
		}
		lg.Info("database replicas registered", zap.Int("count", len(replicas)))
	}

	if c.Tracing {
		if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil {
			lg.Warn("gorm tracing plugin", zap.Error(err))
		}
	}

	if c.AutoMigrate {
		if err := model.AutoMigrateAll(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// openDialector builds the dialector for c, pointing at host for networked databases
func openDialector(c DatabaseConfig, host string) (gorm.Dialector, error) {
	switch strings.ToLower(c.Type) {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=true&loc=UTC",
			c.UserName,
			c.Password,
			host,
			c.Name,
			charset,
		)), nil
	case "postgres", "postgresql", "pgsql":
		h, port, err := net.SplitHostPort(host)
		if err != nil {
			h, port = host, "5432"
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			h, port, c.UserName, c.Password, c.Name,
		)), nil
	case "sqlite", "sqlite3", "":
		if c.Path != ":memory:" && !strings.HasPrefix(c.Path, "file:") && !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}

func isSQLite(t string) bool {
	switch strings.ToLower(t) {
	case "sqlite", "sqlite3", "":
		return true
	}
	return false
}

// Close 关闭数据库连接
func (d *Dao) Close() error {
	sqlDB, err := d.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
