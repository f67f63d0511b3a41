// Package storage 快照等导出文件的统一存储后端
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/storage/aliyun_oss"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/storage/aws_s3"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/storage/local_fs"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/storage/webdav"

	"github.com/pkg/errors"
)

type Type = string

const (
	LOCAL  Type = "localfs"
	S3     Type = "s3"
	MinIO  Type = "minio"
	R2     Type = "r2"
	OSS    Type = "oss"
	WebDAV Type = "webdav"
)

// ErrInvalidType 不支持的存储类型
var ErrInvalidType = errors.New("invalid storage type")

// Config 统一存储配置
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	// CustomPath 所有对象键的前缀目录
	CustomPath string `yaml:"custom-path"`

	// S3 / MinIO / R2 / OSS
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"` // Cloudflare R2

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage/snapshots"`
}

// Storager 存储后端
type Storager interface {
	// SendContent 写入对象，返回后端内的完整路径
	SendContent(ctx context.Context, pathKey string, content []byte, modTime time.Time) (string, error)
	// Delete 删除对象，不存在时不报错
	Delete(ctx context.Context, pathKey string) error
}

// NewClient 按类型创建存储客户端
func NewClient(config *Config) (Storager, error) {
	if config == nil {
		return nil, ErrInvalidType
	}

	switch strings.ToLower(config.Type) {
	case LOCAL, "":
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3, MinIO, R2:
		return aws_s3.NewClient(s3Config(config))
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	}
	return nil, errors.Wrap(ErrInvalidType, config.Type)
}

// s3Config MinIO 与 R2 复用 S3 协议，区别只在 endpoint 与寻址方式
func s3Config(config *Config) *aws_s3.Config {
	cfg := &aws_s3.Config{
		Endpoint:        config.Endpoint,
		Region:          config.Region,
		BucketName:      config.BucketName,
		AccessKeyID:     config.AccessKeyID,
		AccessKeySecret: config.AccessKeySecret,
		CustomPath:      config.CustomPath,
	}

	switch strings.ToLower(config.Type) {
	case MinIO:
		cfg.UsePathStyle = true
		if cfg.Region == "" {
			cfg.Region = "us-east-1"
		}
	case R2:
		if cfg.Endpoint == "" {
			cfg.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", config.AccountID)
		}
		cfg.Region = "auto"
	}
	return cfg
}
