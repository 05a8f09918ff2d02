package resources

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func drainWithin(t *testing.T, results <-chan taskResult, d time.Duration) []taskResult {
	t.Helper()
	var collected []taskResult
	done := make(chan struct{})
	go func() {
		for r := range results {
			collected = append(collected, r)
		}
		close(done)
	}()
	select {
	case <-done:
		return collected
	case <-time.After(d):
		t.Fatalf("results channel never closed")
		return nil
	}
}

func TestWorkerPool_RateLimitedQueueDrainsAfterClose(t *testing.T) {
	// More tasks than workers, so some are still rate-waiting when
	// Close lands.
	p := newWorkerPool(2, 100)
	results := p.Run(context.Background())

	var ran int32
	for i := 0; i < 8; i++ {
		p.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}
	p.Close()

	got := drainWithin(t, results, 5*time.Second)
	if len(got) != 8 {
		t.Fatalf("expected 8 results, got %d", len(got))
	}
	if n := atomic.LoadInt32(&ran); n != 8 {
		t.Fatalf("expected 8 tasks executed, got %d", n)
	}
}

func TestWorkerPool_UnlimitedRateDrainsAfterClose(t *testing.T) {
	p := newWorkerPool(3, 0)
	results := p.Run(context.Background())

	for i := 0; i < 5; i++ {
		p.Submit(func(ctx context.Context) error { return nil })
	}
	p.Close()

	if got := drainWithin(t, results, 5*time.Second); len(got) != 5 {
		t.Fatalf("expected 5 results, got %d", len(got))
	}
}

func TestWorkerPool_ContextCancelReleasesWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := newWorkerPool(1, 1)
	results := p.Run(ctx)

	p.Submit(func(ctx context.Context) error { return nil })
	p.Submit(func(ctx context.Context) error { return nil })
	cancel()
	p.Close()

	drainWithin(t, results, 5*time.Second)
}
