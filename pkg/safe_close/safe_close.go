// Package safe_close coordinates graceful shutdown of long running workers
// Package safe_close 协调长期运行任务的优雅关闭
package safe_close

import (
	"sync"
)

// SafeClose 关闭信号与等待组
type SafeClose struct {
	once        sync.Once
	wg          sync.WaitGroup
	closeSignal chan struct{}

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 启动一个受管理的任务
// fn 必须在退出前调用 done，并在 closeSignal 关闭后尽快返回
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.closeSignal)
}

// AttachCloser 注册一个在关闭信号后执行的清理函数
func (s *SafeClose) AttachCloser(fn func()) {
	s.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		fn()
	})
}

// SendCloseSignal 发送关闭信号，可重复调用，只记录第一个错误
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if s.err == nil && err != nil {
		s.err = err
	}
	s.mu.Unlock()

	s.once.Do(func() {
		close(s.closeSignal)
	})
}

// CloseSignal 返回关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed 等待所有任务退出，返回触发关闭的错误
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// WaitClosedWithChannel 阻塞直到所有任务退出，适合在 select 中与超时组合
func (s *SafeClose) WaitClosedWithChannel() <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- s.WaitClosed()
	}()
	return ch
}
