// Package workerpool provides a bounded goroutine pool with backpressure.
//
// When every worker is busy and the queue is full, Submit returns
// ErrPoolFull immediately so the caller can drop or degrade instead of
// piling up goroutines:
//
//	pool := workerpool.New(4, workerpool.WithPanicHandler(func(v any) {
//	    logger.Error("listener panicked", "panic", v)
//	}))
//	defer pool.Shutdown()
//
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) {
//	    // shed the work
//	}
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when the task queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Option configures a Pool.
type Option func(*Pool)

// WithQueue sets the task buffer size. The default is twice the worker count.
func WithQueue(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.queue = n
		}
	}
}

// WithPanicHandler is called with the recovered value when a task panics.
func WithPanicHandler(fn func(any)) Option {
	return func(p *Pool) { p.onPanic = fn }
}

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	queue   int
	onPanic func(any)

	mu      sync.RWMutex
	closeCh chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// New starts size workers. A size below 1 is treated as 1.
func New(size int, opts ...Option) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{queue: size * 2, closeCh: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	p.tasks = make(chan func(), p.queue)

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until task is queued or the pool starts shutting down.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting tasks, runs everything already queued and waits
// for the workers to exit. It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)

		// No sender holds the read lock past this point.
		p.mu.Lock()
		close(p.tasks)
		p.mu.Unlock()

		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if v := recover(); v != nil && p.onPanic != nil {
			p.onPanic(v)
		}
	}()
	task()
}
