// Package workerpool runs functions on a fixed set of goroutines and hands
// back their results through futures.
//
//	pool, err := workerpool.New(workerpool.Config{Workers: 4}, log)
//	defer pool.Close(ctx)
//
//	fut, err := workerpool.Submit(ctx, pool, func() (int, error) { return 42, nil })
//	v, err := fut.Await(ctx)
//
// Submissions queue up to Config.QueueSize tasks; past that, Submit blocks
// until a slot frees or its context is done. Tasks run in no particular
// order. Close stops accepting work and waits for queued tasks to finish.
package workerpool
