package webdav

import (
	"context"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config WebDAV 连接信息
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 客户端
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

// NewClient 创建 WebDAV 客户端，连接在首次写入时建立
func NewClient(conf *Config) (*WebDAV, error) {
	if conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is required")
	}
	return &WebDAV{
		Client: gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password),
		Config: conf,
	}, nil
}

func (w *WebDAV) key(fileKey string) string {
	return path.Join("/", w.Config.CustomPath, fileKey)
}

// SendContent 写入内容，gowebdav 不支持 context，只在开始前检查取消
func (w *WebDAV) SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := w.key(fileKey)
	if err := w.Client.MkdirAll(path.Dir(key), 0755); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	if err := w.Client.Write(key, content, 0644); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return key, nil
}

func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	err := w.Client.Remove(w.key(fileKey))
	if err != nil && !gowebdav.IsErrNotFound(err) {
		return errors.Wrap(err, "webdav")
	}
	return nil
}
