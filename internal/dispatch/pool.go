package dispatch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	errs "github.com/debatelab/argdown-feedback-sub001/pkg/errors"
)

// workerPool runs tasks on a fixed set of workers fed from a FIFO queue.
// The queue is unbounded unless limit is positive. Closing the pool stops
// intake; workers drain the remaining queue before exiting.
type workerPool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	limit  int
	closed bool

	grp *errgroup.Group

	// onDepth reports queue length changes, for the gauge.
	onDepth func(int)
}

func newWorkerPool(workers, limit int, onDepth func(int)) *workerPool {
	p := &workerPool{limit: limit, onDepth: onDepth, grp: &errgroup.Group{}}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		p.grp.Go(p.work)
	}
	return p
}

func (p *workerPool) work() error {
	for {
		task, ok := p.next()
		if !ok {
			return nil
		}
		task()
	}
}

func (p *workerPool) next() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}
	task := p.queue[0]
	p.queue = p.queue[1:]
	p.reportDepthLocked()
	return task, true
}

// enqueue appends a task in FIFO order. A bounded queue at capacity and a
// closed pool both reject with QueueFullError.
func (p *workerPool) enqueue(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errs.NewQueueFullError(p.limit)
	}
	if p.limit > 0 && len(p.queue) >= p.limit {
		return errs.NewQueueFullError(p.limit)
	}
	p.queue = append(p.queue, task)
	p.reportDepthLocked()
	p.cond.Signal()
	return nil
}

func (p *workerPool) depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *workerPool) reportDepthLocked() {
	if p.onDepth != nil {
		p.onDepth(len(p.queue))
	}
}

// shutdown stops intake and joins the workers. Queued tasks still run.
// Safe to call more than once; every call waits for the workers.
func (p *workerPool) shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.grp.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
