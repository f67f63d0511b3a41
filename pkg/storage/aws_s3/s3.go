package aws_s3

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Config S3 兼容存储配置，MinIO 与 R2 通过 Endpoint 接入
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
	UsePathStyle    bool   `yaml:"use-path-style"`
}

type S3 struct {
	S3Client        *s3.Client
	TransferManager *transfermanager.Client
	Config          *Config
}

// NewClient 创建 S3 存储实例
func NewClient(conf *Config) (*S3, error) {
	if conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket name is required")
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = conf.UsePathStyle
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	})

	return &S3{
		S3Client:        client,
		TransferManager: transfermanager.New(client),
		Config:          conf,
	}, nil
}

func (p *S3) key(fileKey string) string {
	return path.Join(p.Config.CustomPath, fileKey)
}

// SendContent 上传内容，修改时间写入对象元数据
func (p *S3) SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error) {
	key := p.key(fileKey)

	input := &transfermanager.UploadObjectInput{
		Bucket:      aws.String(p.Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/json"),
	}
	if !modTime.IsZero() {
		input.Metadata = map[string]string{
			"modification-time": modTime.UTC().Format(time.RFC3339),
		}
	}

	if _, err := p.TransferManager.UploadObject(ctx, input); err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}
	return path.Join(p.Config.BucketName, key), nil
}

func (p *S3) Delete(ctx context.Context, fileKey string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.key(fileKey)),
	})
	return errors.Wrap(err, "aws_s3")
}
