package consumer

import (
	"context"
	"sync"
	"time"
)

// Executor is a dedicated single-goroutine execution context. Tasks submitted
// to it run one at a time, in submission order, always on the same goroutine.
//
// The consumer runs every underlying-client call on an Executor so the client
// observes a single thread of access even for calls made outside the actor
// (the final close runs on the goroutine that supervises teardown).
type Executor struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// NewExecutor starts a new executor. Close must be called to release its
// goroutine. An executor supplied to a Consumer via Config.Executor is left
// running by the consumer and stays the caller's to close.
func NewExecutor() *Executor {
	e := &Executor{
		tasks: make(chan func()),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Executor) run() {
	for {
		select {
		case task := <-e.tasks:
			task()
		case <-e.done:
			return
		}
	}
}

// Submit runs fn on the executor goroutine and waits for it to finish.
// It returns ErrExecutorClosed when the executor is closed, or the context
// error when ctx is done first. When ctx is cancelled after fn has started,
// fn still runs to completion on the executor; only the wait is abandoned.
func (e *Executor) Submit(ctx context.Context, fn func()) error {
	completed := make(chan struct{})
	wrapped := func() {
		defer close(completed)
		fn()
	}
	select {
	case e.tasks <- wrapped:
	case <-e.done:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-completed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the executor. Tasks already running complete; tasks not yet
// accepted are rejected with ErrExecutorClosed. Close is idempotent.
func (e *Executor) Close() {
	e.once.Do(func() { close(e.done) })
}

// synchronizedClient wraps the underlying non-thread-safe client so that at
// most one task invokes its methods at a time, with every invocation executed
// on the dedicated executor goroutine. The mutex makes leases mutually
// exclusive between the actor and the teardown that closes the client; it
// does not serve waiting callers in any guaranteed order.
type synchronizedClient struct {
	mu     sync.Mutex
	client Client
	exec   *Executor
}

func newSynchronizedClient(client Client, exec *Executor) *synchronizedClient {
	return &synchronizedClient{client: client, exec: exec}
}

// withClient takes an exclusive lease on the client for the duration of fn.
// fn must not suspend for unbounded time while holding the lease.
func (s *synchronizedClient) withClient(ctx context.Context, fn func(Client) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fnErr error
	if err := s.exec.Submit(ctx, func() {
		fnErr = fn(s.client)
	}); err != nil {
		return err
	}
	return fnErr
}

// close shuts the client down on the executor, bounded by timeout. It takes
// the lease like any other action so an in-flight poll finishes first.
func (s *synchronizedClient) close(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := s.withClient(ctx, func(c Client) error {
		return c.Close(timeout)
	})
	if ctx.Err() != nil {
		return ErrCloseTimeout
	}
	return err
}
