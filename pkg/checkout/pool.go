package checkout

import (
	"sync"
)

// workerPool dispatches work with a bounded concurrency window: a
// buffered-channel semaphore caps how many tasks are in flight, and a
// WaitGroup joins them. The first failure is recorded and stops
// further dispatch; tasks already in flight run to completion but
// their results are not consulted once the error is returned.
type workerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu       sync.Mutex
	firstErr error
}

func newWorkerPool(width int) *workerPool {
	if width <= 0 {
		width = DefaultParallelism
	}
	return &workerPool{sem: make(chan struct{}, width)}
}

// dispatch blocks until a slot frees, then runs fn on its own
// goroutine. Returns false without running fn once a failure has been
// recorded, so dispatch loops can stop pulling work.
func (p *workerPool) dispatch(fn func() error) bool {
	if p.err() != nil {
		return false
	}
	p.sem <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		if err := fn(); err != nil {
			p.fail(err)
		}
	}()
	return true
}

// fail records err as the pool's result unless an earlier error won.
func (p *workerPool) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.firstErr == nil {
		p.firstErr = err
	}
}

func (p *workerPool) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}

// wait joins all dispatched tasks and returns the first recorded
// error. The join is the visibility barrier for anything the tasks
// wrote.
func (p *workerPool) wait() error {
	p.wg.Wait()
	return p.err()
}
