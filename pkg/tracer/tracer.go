// Package tracer builds the opentracing tracer used for request and SQL spans
// Package tracer 创建请求与 SQL span 使用的 opentracing tracer
package tracer

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Config jaeger 上报配置
type Config struct {
	ServiceName string
	// AgentHostPort jaeger agent 地址，如 127.0.0.1:6831
	AgentHostPort string
	// SampleRate 采样率 0~1
	SampleRate float64
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 创建 jaeger tracer 并设为全局 tracer（gormTracing 使用全局 tracer）
// AgentHostPort 为空时返回 NoopTracer
func New(cfg Config) (opentracing.Tracer, io.Closer, error) {
	if cfg.AgentHostPort == "" {
		return opentracing.NoopTracer{}, nopCloser{}, nil
	}

	jc := jaegercfg.Configuration{
		ServiceName: cfg.ServiceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeProbabilistic,
			Param: cfg.SampleRate,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentHostPort,
		},
	}
	t, closer, err := jc.NewTracer()
	if err != nil {
		return nil, nil, errors.Wrap(err, "jaeger tracer")
	}
	opentracing.SetGlobalTracer(t)
	return t, closer, nil
}
