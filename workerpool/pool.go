package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/kbukum/restkit/logger"
)

var (
	// ErrClosed is returned by Submit after Close has been called.
	ErrClosed = errors.New("workerpool: pool is closed")
	// ErrPanic wraps the value recovered from a panicking task.
	ErrPanic = errors.New("workerpool: task panicked")
)

// Pool is a fixed-size set of workers consuming a bounded task queue.
type Pool struct {
	cfg   Config
	log   *logger.Logger
	tasks chan func()
	quit  chan struct{}

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup

	pending atomic.Int64
}

// New starts a pool with cfg.Workers goroutines.
func New(cfg Config, log *logger.Logger) (*Pool, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &Pool{
		cfg:   cfg,
		log:   log.WithComponent(cfg.Name),
		tasks: make(chan func(), cfg.QueueSize),
		quit:  make(chan struct{}),
	}
	p.wg.Add(cfg.Workers)
	for range cfg.Workers {
		go p.worker()
	}
	p.log.Debug("worker pool started", logger.Fields("workers", cfg.Workers, "queue_size", cfg.QueueSize))
	return p, nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
		p.pending.Add(-1)
	}
}

// Submit queues fn and returns a future for its result. It blocks while the
// queue is full, returning ctx.Err() if ctx is done first and ErrClosed once
// the pool is closing. A panic in fn resolves the future with an error
// wrapping ErrPanic.
func Submit[T any](ctx context.Context, p *Pool, fn func() (T, error)) (*Future[T], error) {
	fut := newFuture[T]()
	task := func() {
		var (
			val T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrPanic, r)
				p.log.Error("task panicked", logger.Fields(
					logger.FieldError, fmt.Sprint(r),
					"stack", string(debug.Stack()),
				))
			}
			fut.resolve(val, err)
		}()
		val, err = fn()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}
	p.pending.Add(1)
	select {
	case p.tasks <- task:
		return fut, nil
	case <-p.quit:
		p.pending.Add(-1)
		return nil, ErrClosed
	case <-ctx.Done():
		p.pending.Add(-1)
		return nil, ctx.Err()
	}
}

// Pending returns the number of queued and running tasks.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.cfg.Workers
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.cfg.Name
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Close stops accepting tasks and waits for queued tasks to finish or ctx
// to be done. Tasks still running when ctx is done keep running; their
// futures resolve normally.
func (p *Pool) Close(ctx context.Context) error {
	p.once.Do(func() {
		close(p.quit)
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.log.Debug("worker pool drained")
		return nil
	case <-ctx.Done():
		p.log.Warn("worker pool close timed out", logger.Fields("pending", p.Pending()))
		return fmt.Errorf("workerpool: close: %w", ctx.Err())
	}
}
