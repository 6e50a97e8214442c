package client

import (
	"context"

	"github.com/kbukum/restkit/workerpool"
)

// Task is the dispatch half of a call.
type Task func(ctx context.Context) (any, error)

// Executor decides where a prepared call is dispatched.
type Executor interface {
	Execute(ctx context.Context, task Task) (*workerpool.Future[any], error)
}

type directExecutor struct{}

// Direct runs tasks on the calling goroutine and returns completed futures.
var Direct Executor = directExecutor{}

func (directExecutor) Execute(ctx context.Context, task Task) (*workerpool.Future[any], error) {
	v, err := task(ctx)
	return workerpool.Resolved(v, err), nil
}

// PoolExecutor submits tasks to a worker pool. Tasks run detached from the
// submitting context's cancellation but keep its values, so an abandoned
// future still completes.
type PoolExecutor struct {
	pool *workerpool.Pool
}

// NewPoolExecutor returns an Executor backed by pool.
func NewPoolExecutor(pool *workerpool.Pool) *PoolExecutor {
	return &PoolExecutor{pool: pool}
}

// Execute queues task. ctx only bounds the wait for a queue slot.
func (e *PoolExecutor) Execute(ctx context.Context, task Task) (*workerpool.Future[any], error) {
	detached := context.WithoutCancel(ctx)
	return workerpool.Submit(ctx, e.pool, func() (any, error) {
		return task(detached)
	})
}

// Pool returns the underlying pool.
func (e *PoolExecutor) Pool() *workerpool.Pool {
	return e.pool
}
