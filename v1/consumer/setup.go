package consumer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Aleph-Alpha/kstream/v1/observability"
	"golang.org/x/sync/errgroup"
)

// Consumer is a concurrency-safe, backpressured Kafka consumer built around a
// single-threaded underlying client. All operations post requests to an actor
// goroutine that owns the client and the consumer state; callers only ever
// touch channels and completion slots.
//
// A Consumer is created running: NewConsumer starts the actor and the poll
// scheduler. Tear it down through Fiber().Cancel (or the fx lifecycle).
//
// Consumer implements the Client-facing side of this package; the underlying
// Kafka client is pluggable through Config.Factory.
type Consumer[K, V any] struct {
	cfg      Config
	requests chan request
	fiber    *Fiber
	logger   Logger
	observer observability.Observer
}

// Fiber is the lifecycle handle of a consumer. Cancelling it stops the poll
// scheduler and the actor (the two are linked: either one exiting cancels the
// other), closes the underlying client on the dedicated executor, and then
// completes Join.
type Fiber struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Cancel requests shutdown. It returns immediately; use Join to wait.
func (f *Fiber) Cancel() { f.cancel() }

// Join waits for the consumer to finish and returns the error that stopped
// it, or nil after a clean cancel.
func (f *Fiber) Join(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once the consumer has fully torn down.
func (f *Fiber) Done() <-chan struct{} { return f.done }

// NewConsumer constructs and starts a consumer. The key and value
// deserializers turn raw record bytes into K and V.
//
// Resources are torn down in reverse construction order when the fiber is
// cancelled or the actor fails: poll scheduler and actor first, then the
// underlying client (closed on the dedicated executor), then the executor
// itself when the consumer provisioned it.
func NewConsumer[K, V any](cfg Config, keyDeserializer Deserializer[K], valueDeserializer Deserializer[V]) (*Consumer[K, V], error) {
	cfg = cfg.withDefaults()
	if cfg.Factory == nil {
		return nil, ErrNoFactory
	}

	client, err := cfg.Factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("create underlying client: %w", err)
	}

	exec := cfg.Executor
	ownsExecutor := false
	if exec == nil {
		exec = NewExecutor()
		ownsExecutor = true
	}
	synchronized := newSynchronizedClient(client, exec)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Consumer[K, V]{
		cfg:      cfg,
		requests: make(chan request, cfg.RequestBuffer),
		fiber:    &Fiber{cancel: cancel, done: make(chan struct{})},
		logger:   cfg.Logger,
	}

	act := &actor[K, V]{
		cfg:               cfg,
		client:            synchronized,
		state:             newActorState[K, V](),
		requests:          c.requests,
		polls:             make(chan struct{}, 1),
		keyDeserializer:   keyDeserializer,
		valueDeserializer: valueDeserializer,
		commit:            c.commitOffsets,
		logger:            cfg.Logger,
		observe:           c.observeOperation,
	}
	scheduler := &pollScheduler{polls: act.polls, interval: cfg.PollInterval}

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return act.run(groupCtx) })
	g.Go(func() error { return scheduler.run(groupCtx) })

	go func() {
		runErr := g.Wait()
		if errors.Is(runErr, context.Canceled) {
			runErr = nil
		}
		if closeErr := synchronized.close(cfg.CloseTimeout); closeErr != nil {
			if c.logger != nil {
				c.logger.Error("closing underlying client failed", closeErr, nil)
			}
			if runErr == nil {
				runErr = closeErr
			}
		}
		if ownsExecutor {
			exec.Close()
		}
		c.fiber.err = runErr
		close(c.fiber.done)
	}()

	return c, nil
}

// WithObserver attaches an observer for operation-level metrics and returns
// the consumer for chaining.
func (c *Consumer[K, V]) WithObserver(observer observability.Observer) *Consumer[K, V] {
	c.observer = observer
	return c
}

// Fiber returns the consumer's lifecycle handle.
func (c *Consumer[K, V]) Fiber() *Fiber { return c.fiber }

// enqueue posts a request to the actor, honouring the caller's context and
// the consumer lifecycle.
func (c *Consumer[K, V]) enqueue(ctx context.Context, req request) error {
	select {
	case c.requests <- req:
		return nil
	case <-c.fiber.done:
		return ErrConsumerShutdown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubscribeTo subscribes to one or more topics.
func (c *Consumer[K, V]) SubscribeTo(ctx context.Context, first string, rest ...string) error {
	return c.Subscribe(ctx, append([]string{first}, rest...))
}

// Subscribe subscribes to the given topics. The collection must be nonempty.
func (c *Consumer[K, V]) Subscribe(ctx context.Context, topics []string) error {
	if len(topics) == 0 {
		return ErrEmptyTopics
	}
	s := newSlot[struct{}]()
	if err := c.enqueue(ctx, &subscribeTopicsRequest{topics: topics, slot: s}); err != nil {
		return err
	}
	_, err := s.await(ctx, c.fiber.done)
	return err
}

// SubscribePattern subscribes to all topics matching the given pattern.
func (c *Consumer[K, V]) SubscribePattern(ctx context.Context, pattern *regexp.Regexp) error {
	s := newSlot[struct{}]()
	if err := c.enqueue(ctx, &subscribePatternRequest{pattern: pattern, slot: s}); err != nil {
		return err
	}
	_, err := s.await(ctx, c.fiber.done)
	return err
}

// Unsubscribe drops the current subscription. Pending fetches resolve as
// revoked, so the unified stream and the per-partition streams waiting on
// them terminate; the outer channel of PartitionedStream stays open until
// its context is cancelled or the consumer shuts down.
func (c *Consumer[K, V]) Unsubscribe(ctx context.Context) error {
	s := newSlot[struct{}]()
	if err := c.enqueue(ctx, &unsubscribeRequest{slot: s}); err != nil {
		return err
	}
	_, err := s.await(ctx, c.fiber.done)
	return err
}

// Seek repositions the consumer so the next records fetched for tp start at
// offset. The call is forwarded to the underlying client as-is.
func (c *Consumer[K, V]) Seek(ctx context.Context, tp TopicPartition, offset int64) error {
	s := newSlot[struct{}]()
	if err := c.enqueue(ctx, &seekRequest{tp: tp, offset: offset, slot: s}); err != nil {
		return err
	}
	_, err := s.await(ctx, c.fiber.done)
	return err
}

// BeginningOffsets returns the first offset for each given partition. An
// optional timeout overrides Config.DefaultAPITimeout.
func (c *Consumer[K, V]) BeginningOffsets(ctx context.Context, partitions []TopicPartition, timeout ...time.Duration) (map[TopicPartition]int64, error) {
	return c.offsets(ctx, beginningOffsets, partitions, pickTimeout(timeout, c.cfg.DefaultAPITimeout))
}

// EndOffsets returns the one-past-the-last offset for each given partition.
// An optional timeout overrides Config.RequestTimeout.
func (c *Consumer[K, V]) EndOffsets(ctx context.Context, partitions []TopicPartition, timeout ...time.Duration) (map[TopicPartition]int64, error) {
	return c.offsets(ctx, endOffsets, partitions, pickTimeout(timeout, c.cfg.RequestTimeout))
}

func pickTimeout(timeout []time.Duration, fallback time.Duration) time.Duration {
	if len(timeout) > 0 {
		return timeout[0]
	}
	return fallback
}

func (c *Consumer[K, V]) offsets(ctx context.Context, kind offsetsKind, partitions []TopicPartition, timeout time.Duration) (map[TopicPartition]int64, error) {
	s := newSlot[map[TopicPartition]int64]()
	req := &offsetsRequest{kind: kind, partitions: partitions, timeout: timeout, slot: s}
	if err := c.enqueue(ctx, req); err != nil {
		return nil, err
	}
	return s.await(ctx, c.fiber.done)
}

// Assignment returns the set of partitions currently assigned to this
// consumer. It fails with ErrNotSubscribed before any successful Subscribe
// and after Unsubscribe.
func (c *Consumer[K, V]) Assignment(ctx context.Context) (PartitionSet, error) {
	return c.assignment(ctx, nil)
}

func (c *Consumer[K, V]) assignment(ctx context.Context, onRebalance *OnRebalance) (PartitionSet, error) {
	s := newSlot[PartitionSet]()
	if err := c.enqueue(ctx, &assignmentRequest{slot: s, onRebalance: onRebalance}); err != nil {
		return nil, err
	}
	return s.await(ctx, c.fiber.done)
}

// fetch registers a fetch for tp and waits for its resolution. Expiring
// fetches additionally resolve with FetchExpired after Config.FetchTimeout.
func (c *Consumer[K, V]) fetch(ctx context.Context, tp TopicPartition, expiring bool) (fetchResult[K, V], error) {
	w := &fetchWaiter[K, V]{slot: newSlot[fetchResult[K, V]](), expiring: expiring}
	if err := c.enqueue(ctx, &fetchRequest[K, V]{tp: tp, waiter: w}); err != nil {
		return fetchResult[K, V]{}, err
	}
	return w.slot.await(ctx, c.fiber.done)
}

// commitOffsets backs CommittableOffset.Commit.
func (c *Consumer[K, V]) commitOffsets(ctx context.Context, offsets map[TopicPartition]int64) error {
	s := newSlot[struct{}]()
	if err := c.enqueue(ctx, &commitRequest{offsets: offsets, slot: s}); err != nil {
		return err
	}
	_, err := s.await(ctx, c.fiber.done)
	return err
}
