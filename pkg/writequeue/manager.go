// Package writequeue serializes write operations per user
// Package writequeue 按用户串行化写操作
//
// SQLite allows one writer at a time; funnelling each user's writes through a
// single lane keeps "database is locked" errors away from concurrent clients
// and gives every user a FIFO order of mutations.
package writequeue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull the user's lane has no free slot
	ErrQueueFull = errors.New("write queue is full")
	// ErrQueueClosed the manager is shutting down
	ErrQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout the operation waited longer than Config.WriteTimeout
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	QueueCapacity int           // 每用户队列容量，默认 100
	WriteTimeout  time.Duration // 单次写操作等待上限，默认 30 秒
	IdleTimeout   time.Duration // 空闲 lane 回收时间，默认 10 分钟
}

func (c Config) withDefaults() Config {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 10 * time.Minute
	}
	return c
}

type job struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// lane 单用户的写通道，由一个 worker 顺序消费
type lane struct {
	uid  int64
	jobs chan job
}

// Manager 管理所有用户的写通道
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	lanes  map[int64]*lane
	closed bool
	wg     sync.WaitGroup
}

// New creates a manager; a nil logger logs nothing
// New 创建写队列管理器
func New(cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	logger.Info("write queue manager started",
		zap.Int("queueCapacity", cfg.QueueCapacity),
		zap.Duration("writeTimeout", cfg.WriteTimeout),
		zap.Duration("idleTimeout", cfg.IdleTimeout))

	return &Manager{
		config: cfg,
		logger: logger,
		lanes:  make(map[int64]*lane),
	}
}

// Execute runs fn on uid's lane and waits for its result
// Execute 在用户的写通道上执行 fn 并等待结果，同一用户的写操作按 FIFO 顺序执行
func (m *Manager) Execute(ctx context.Context, uid int64, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, fn: fn, result: make(chan error, 1)}

	if err := m.enqueue(uid, j); err != nil {
		return err
	}

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	}
}

func (m *Manager) enqueue(uid int64, j job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrQueueClosed
	}

	l, ok := m.lanes[uid]
	if !ok {
		l = &lane{uid: uid, jobs: make(chan job, m.config.QueueCapacity)}
		m.lanes[uid] = l
		m.wg.Add(1)
		go m.work(l)
		m.logger.Debug("write queue lane created", zap.Int64("uid", uid))
	}

	select {
	case l.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// work consumes l until it is closed or stays idle for IdleTimeout
func (m *Manager) work(l *lane) {
	defer m.wg.Done()

	idle := time.NewTimer(m.config.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case j, ok := <-l.jobs:
			if !ok {
				return
			}
			m.run(j)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(m.config.IdleTimeout)
		case <-idle.C:
			if m.retire(l) {
				m.logger.Debug("write queue lane retired", zap.Int64("uid", l.uid))
				return
			}
			idle.Reset(m.config.IdleTimeout)
		}
	}
}

// retire removes an empty lane; enqueue holds the same lock, so no job can slip in
func (m *Manager) retire(l *lane) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || len(l.jobs) > 0 {
		return false
	}
	delete(m.lanes, l.uid)
	return true
}

func (m *Manager) run(j job) {
	if err := j.ctx.Err(); err != nil {
		j.result <- err
		return
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("write queue job panic", zap.Any("panic", r), zap.Stack("stack"))
			j.result <- errors.New("write queue job panic")
		}
	}()

	j.result <- j.fn(j.ctx)
}

// Shutdown stops accepting writes and waits for queued ones to finish
// Shutdown 停止接收新的写操作，等待已排队的操作完成
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for uid, l := range m.lanes {
		close(l.jobs)
		delete(m.lanes, uid)
	}
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// Stats 写队列运行状态
type Stats struct {
	Lanes   int
	Pending int
	Closed  bool
}

// Stats returns the number of live lanes and queued jobs
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{Lanes: len(m.lanes), Closed: m.closed}
	for _, l := range m.lanes {
		s.Pending += len(l.jobs)
	}
	return s
}
