// Package workerpool bounds how many heavy read jobs run at once
// Package workerpool 限制同时执行的重量级读任务数量（如全量同步）
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrPoolFull 等待队列已满
	ErrPoolFull = errors.New("worker pool queue is full")
	// ErrPoolClosed 池已关闭
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Config Worker Pool 配置
type Config struct {
	// MaxWorkers 最大并发任务数，默认 16
	MaxWorkers int
	// QueueSize 等待队列长度，默认 256
	QueueSize int
	// WarningPercent 活跃任务占比超过该值时输出告警，默认 0.8
	WarningPercent float64
}

func (c Config) withDefaults() Config {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 16
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.WarningPercent <= 0 || c.WarningPercent > 1 {
		c.WarningPercent = 0.8
	}
	return c
}

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Pool 固定数量 worker 的任务池
type Pool struct {
	config Config
	logger *zap.Logger

	jobs chan job
	wg   sync.WaitGroup

	active    atomic.Int64
	completed atomic.Int64
	rejected  atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// New 创建并启动 Worker Pool
func New(cfg Config, logger *zap.Logger) *Pool {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		config: cfg,
		logger: logger,
		jobs:   make(chan job, cfg.QueueSize),
	}

	for i := 0; i < cfg.MaxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	logger.Info("worker pool started",
		zap.Int("maxWorkers", cfg.MaxWorkers),
		zap.Int("queueSize", cfg.QueueSize))

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		j.done <- p.execute(j)
	}
}

func (p *Pool) execute(j job) (err error) {
	// 调用方已放弃等待的任务直接跳过
	if err := j.ctx.Err(); err != nil {
		return err
	}

	active := p.active.Add(1)
	defer p.active.Add(-1)
	defer p.completed.Add(1)

	if threshold := int64(float64(p.config.MaxWorkers) * p.config.WarningPercent); active >= threshold {
		p.logger.Warn("worker pool approaching capacity",
			zap.Int64("activeCount", active),
			zap.Int("maxWorkers", p.config.MaxWorkers))
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker pool job panic", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("worker pool job panic: %v", r)
		}
	}()

	return j.fn(j.ctx)
}

// Submit 提交任务并等待其完成；队列已满时立即返回 ErrPoolFull
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	select {
	case p.jobs <- j:
	default:
		p.mu.RUnlock()
		p.rejected.Add(1)
		return ErrPoolFull
	}
	p.mu.RUnlock()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown 停止接收任务并等待已排队任务执行完毕
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timeout", zap.Int64("activeCount", p.active.Load()))
		return ctx.Err()
	}
}

// Metrics Worker Pool 运行指标
type Metrics struct {
	MaxWorkers int
	Active     int64
	Queued     int
	Completed  int64
	Rejected   int64
	Closed     bool
}

// GetMetrics 获取当前指标
func (p *Pool) GetMetrics() Metrics {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	return Metrics{
		MaxWorkers: p.config.MaxWorkers,
		Active:     p.active.Load(),
		Queued:     len(p.jobs),
		Completed:  p.completed.Load(),
		Rejected:   p.rejected.Load(),
		Closed:     closed,
	}
}
