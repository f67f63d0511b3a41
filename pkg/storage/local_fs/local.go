package local_fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/pkg/fileurl"
)

type Config struct {
	SavePath   string `yaml:"save-path"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf.SavePath == "" {
		conf.SavePath = "storage/snapshots"
	}
	return &LocalFS{Config: conf}, nil
}

func (p *LocalFS) path(fileKey string) string {
	return filepath.Join(p.Config.SavePath, p.Config.CustomPath, filepath.FromSlash(fileKey))
}

// SendContent 写入本地文件并设置修改时间
func (p *LocalFS) SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := p.path(fileKey)
	if err := fileurl.CreatePath(dst, 0754); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return "", err
	}
	if !modTime.IsZero() {
		_ = os.Chtimes(dst, modTime, modTime)
	}
	return dst, nil
}

func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	err := os.Remove(p.path(fileKey))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
