// Package worker provides a generic bounded worker pool for concurrent
// document processing. Submission is non-blocking: a full queue rejects
// work instead of stalling the caller, and counters expose what was
// submitted, processed, failed, and dropped.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrNotStarted is returned by Submit before Start.
	ErrNotStarted = errors.New("worker: pool not started")
	// ErrStopped is returned by Submit after the pool shut down.
	ErrStopped = errors.New("worker: pool stopped")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("worker: pool already started")
	// ErrQueueFull is returned by Submit when the queue is at capacity.
	ErrQueueFull = errors.New("worker: queue full")
	// ErrStopTimeout is returned by Stop when workers do not finish in time.
	ErrStopTimeout = errors.New("worker: stop timed out")
)

// Pool processes work items of type T on a fixed number of goroutines
// fed from a bounded queue.
type Pool[T any] struct {
	workers   int
	queueSize int
	process   func(context.Context, T) error

	queue chan T
	wg    sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool

	submitted atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// New creates a pool running process on up to workers goroutines with a
// queue of queueSize pending items.
func New[T any](workers, queueSize int, process func(context.Context, T) error) *Pool[T] {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool[T]{
		workers:   workers,
		queueSize: queueSize,
		process:   process,
		queue:     make(chan T, queueSize),
	}
}

// Start launches the workers. The context cancels in-flight processing
// and stops the workers.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyStarted
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	p.started = true
	return nil
}

// Submit queues one work item without blocking. A full queue drops the
// item and returns ErrQueueFull.
func (p *Pool[T]) Submit(work T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return ErrNotStarted
	}
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- work:
		p.submitted.Add(1)
		return nil
	default:
		p.dropped.Add(1)
		return ErrQueueFull
	}
}

// Drain closes the queue and waits until the remaining items are
// processed or the context is cancelled.
func (p *Pool[T]) Drain(ctx context.Context) error {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queue and waits up to timeout for the workers to
// drain it.
func (p *Pool[T]) Stop(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.Drain(ctx); err != nil {
		return ErrStopTimeout
	}
	return nil
}

// Stats is a snapshot of the pool counters.
type Stats struct {
	Workers    int
	QueueDepth int
	Submitted  int64
	Processed  int64
	Failed     int64
	Dropped    int64
}

// Stats returns the current counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Workers:    p.workers,
		QueueDepth: len(p.queue),
		Submitted:  p.submitted.Load(),
		Processed:  p.processed.Load(),
		Failed:     p.failed.Load(),
		Dropped:    p.dropped.Load(),
	}
}

func (p *Pool[T]) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case work, ok := <-p.queue:
			if !ok {
				return
			}
			if err := p.process(ctx, work); err != nil {
				p.failed.Add(1)
			}
			p.processed.Add(1)
		}
	}
}
