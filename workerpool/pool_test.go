package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newPool(t *testing.T, cfg Config) *Pool {
	t.Helper()
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Name != DefaultName || cfg.Workers != DefaultWorkers || cfg.QueueSize != DefaultQueueSize {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Workers: -1}, nil); err == nil {
		t.Error("expected error for negative workers")
	}
	if _, err := New(Config{QueueSize: -1}, nil); err == nil {
		t.Error("expected error for negative queue size")
	}
}

func TestSubmit_Result(t *testing.T) {
	p := newPool(t, Config{Workers: 2})

	fut, err := Submit(context.Background(), p, func() (string, error) { return "done", nil })
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	v, err := fut.Await(context.Background())
	if err != nil || v != "done" {
		t.Errorf("Await = %q, %v", v, err)
	}
	select {
	case <-fut.Done():
	default:
		t.Error("Done should be closed after Await returns")
	}
}

func TestSubmit_Error(t *testing.T) {
	p := newPool(t, Config{Workers: 1})
	want := errors.New("boom")

	fut, err := Submit(context.Background(), p, func() (int, error) { return 0, want })
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := fut.Result(); !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestSubmit_RecoversPanic(t *testing.T) {
	p := newPool(t, Config{Workers: 1})

	fut, _ := Submit(context.Background(), p, func() (int, error) { panic("bad") })
	if _, err := fut.Result(); !errors.Is(err, ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}

	// The worker survives the panic.
	fut, _ = Submit(context.Background(), p, func() (int, error) { return 1, nil })
	if v, err := fut.Result(); err != nil || v != 1 {
		t.Errorf("after panic: %d, %v", v, err)
	}
}

func TestSubmit_Concurrency(t *testing.T) {
	const workers = 3
	p := newPool(t, Config{Workers: workers, QueueSize: 50})

	var running, peak atomic.Int32
	var futs []*Future[int]
	for i := range 30 {
		fut, err := Submit(context.Background(), p, func() (int, error) {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
			return i, nil
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		futs = append(futs, fut)
	}
	for i, fut := range futs {
		if v, err := fut.Result(); err != nil || v != i {
			t.Errorf("future %d = %d, %v", i, v, err)
		}
	}
	if peak.Load() > workers {
		t.Errorf("peak concurrency %d exceeds %d workers", peak.Load(), workers)
	}
}

func TestSubmit_BlocksWhenQueueFull(t *testing.T) {
	p := newPool(t, Config{Workers: 1, QueueSize: 1})
	release := make(chan struct{})
	started := make(chan struct{})

	_, _ = Submit(context.Background(), p, func() (int, error) {
		close(started)
		<-release
		return 0, nil
	})
	<-started
	if _, err := Submit(context.Background(), p, func() (int, error) { return 0, nil }); err != nil {
		t.Fatalf("queue slot should be free: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Submit(ctx, p, func() (int, error) { return 0, nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	close(release)
}

func TestClose_DrainsQueue(t *testing.T) {
	p, err := New(Config{Workers: 1, QueueSize: 10}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	var ran int
	var futs []*Future[struct{}]
	for range 5 {
		fut, err := Submit(context.Background(), p, func() (struct{}, error) {
			time.Sleep(time.Millisecond)
			mu.Lock()
			ran++
			mu.Unlock()
			return struct{}{}, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		futs = append(futs, fut)
	}

	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if ran != 5 {
		t.Errorf("expected all 5 queued tasks to run, ran %d", ran)
	}
	if p.Pending() != 0 {
		t.Errorf("pending = %d", p.Pending())
	}
	if !p.Closed() {
		t.Error("expected Closed() to be true")
	}
	if _, err := Submit(context.Background(), p, func() (int, error) { return 0, nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	// Close is idempotent.
	if err := p.Close(context.Background()); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestClose_Timeout(t *testing.T) {
	p, _ := New(Config{Workers: 1}, nil)
	release := make(chan struct{})
	fut, _ := Submit(context.Background(), p, func() (int, error) {
		<-release
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected close timeout, got %v", err)
	}

	close(release)
	if v, err := fut.Result(); err != nil || v != 7 {
		t.Errorf("in-flight task result = %d, %v", v, err)
	}
}

func TestFuture_AwaitContext(t *testing.T) {
	f := newFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResolved(t *testing.T) {
	want := errors.New("x")
	v, err := Resolved(3, want).Result()
	if v != 3 || !errors.Is(err, want) {
		t.Errorf("Resolved = %d, %v", v, err)
	}
}
