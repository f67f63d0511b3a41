package aliyun_oss

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
}

// NewClient 创建阿里云 OSS 存储实例
func NewClient(conf *Config) (*OSS, error) {
	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	bucket, err := client.Bucket(conf.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return &OSS{Client: client, Bucket: bucket, Config: conf}, nil
}

func (p *OSS) key(fileKey string) string {
	return path.Join(p.Config.CustomPath, fileKey)
}

func (p *OSS) SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error) {
	key := p.key(fileKey)

	options := []oss.Option{oss.WithContext(ctx), oss.ContentType("application/json")}
	if !modTime.IsZero() {
		options = append(options, oss.Meta("modification-time", modTime.UTC().Format(time.RFC3339)))
	}

	if err := p.Bucket.PutObject(key, bytes.NewReader(content), options...); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return path.Join(p.Config.BucketName, key), nil
}

func (p *OSS) Delete(ctx context.Context, fileKey string) error {
	return errors.Wrap(p.Bucket.DeleteObject(p.key(fileKey), oss.WithContext(ctx)), "aliyun_oss")
}
