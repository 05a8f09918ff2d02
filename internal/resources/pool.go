package resources

import (
	"context"
	"sync"
	"time"
)

type task func(ctx context.Context) error

type taskResult struct {
	Err error
}

// workerPool runs discovery tasks with bounded concurrency and an
// optional requests-per-second cap shared across workers.
type workerPool struct {
	workers int
	tasks   chan task
	wg      sync.WaitGroup
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func newWorkerPool(workers int, rps int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	p := &workerPool{
		workers: workers,
		tasks:   make(chan task, workers*2),
	}
	if rps > 0 {
		p.ticker = time.NewTicker(time.Second / time.Duration(rps))
		p.rate = p.ticker.C
	}
	return p
}

func (p *workerPool) Submit(t task) {
	if t == nil {
		return
	}
	p.tasks <- t
}

// Close stops intake. The ticker is deliberately left running: a worker
// parked on the rate wait still needs its tick, and a stopped ticker's
// channel never delivers. Run stops it once the queue is drained.
func (p *workerPool) Close() {
	close(p.tasks)
}

func (p *workerPool) Run(ctx context.Context) <-chan taskResult {
	out := make(chan taskResult, p.workers*64)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if p.rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-p.rate:
						}
					}
					err := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- taskResult{Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		if p.ticker != nil {
			p.ticker.Stop()
		}
		close(out)
	}()

	return out
}
