package consumer

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// actor is the single goroutine that owns the consumer state and mediates
// every interaction with the underlying client. It consumes the request
// mailbox with priority and falls back to the poll channel only when no user
// work is pending.
type actor[K, V any] struct {
	cfg      Config
	client   *synchronizedClient
	state    *actorState[K, V]
	requests chan request
	polls    chan struct{}

	keyDeserializer   Deserializer[K]
	valueDeserializer Deserializer[V]

	// commit backs the CommittableOffset handles minted during polls.
	commit commitFunc

	logger  Logger
	observe observeFunc
}

// run processes requests until ctx is cancelled or a request fails fatally.
// User requests are drained strictly before polls; a cooperative yield after
// each request keeps a hot mailbox from starving the rest of the process.
func (a *actor[K, V]) run(ctx context.Context) error {
	defer a.state.shutdown()
	for {
		select {
		case req := <-a.requests:
			a.handle(ctx, req)
			runtime.Gosched()
			continue
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		select {
		case req := <-a.requests:
			a.handle(ctx, req)
			runtime.Gosched()
		case <-a.polls:
			if err := a.handlePoll(ctx); err != nil {
				if a.logger != nil {
					a.logger.Error("poll failed, shutting consumer down", err, nil)
				}
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *actor[K, V]) handle(ctx context.Context, req request) {
	switch r := req.(type) {
	case *subscribeTopicsRequest:
		a.handleSubscribeTopics(ctx, r)
	case *subscribePatternRequest:
		a.handleSubscribePattern(ctx, r)
	case *unsubscribeRequest:
		a.handleUnsubscribe(ctx, r)
	case *seekRequest:
		a.handleSeek(ctx, r)
	case *offsetsRequest:
		a.handleOffsets(ctx, r)
	case *assignmentRequest:
		a.handleAssignment(r)
	case *fetchRequest[K, V]:
		a.handleFetch(ctx, r)
	case *expireFetchRequest[K, V]:
		a.handleExpireFetch(r)
	case *commitRequest:
		a.handleCommit(ctx, r)
	}
}

func (a *actor[K, V]) handleSubscribeTopics(ctx context.Context, r *subscribeTopicsRequest) {
	start := time.Now()
	err := a.client.withClient(ctx, func(c Client) error {
		return c.Subscribe(r.topics)
	})
	a.observe("subscribe", strings.Join(r.topics, ","), "", time.Since(start), err, int64(len(r.topics)))
	if err != nil {
		r.slot.fail(err)
		return
	}
	a.state.subscribed = true
	if a.logger != nil {
		a.logger.Info("subscribed", nil, map[string]interface{}{"topics": r.topics})
	}
	r.slot.succeed(struct{}{})
}

func (a *actor[K, V]) handleSubscribePattern(ctx context.Context, r *subscribePatternRequest) {
	start := time.Now()
	err := a.client.withClient(ctx, func(c Client) error {
		return c.SubscribePattern(r.pattern)
	})
	a.observe("subscribe", r.pattern.String(), "pattern", time.Since(start), err, 0)
	if err != nil {
		r.slot.fail(err)
		return
	}
	a.state.subscribed = true
	if a.logger != nil {
		a.logger.Info("subscribed", nil, map[string]interface{}{"pattern": r.pattern.String()})
	}
	r.slot.succeed(struct{}{})
}

func (a *actor[K, V]) handleUnsubscribe(ctx context.Context, r *unsubscribeRequest) {
	err := a.client.withClient(ctx, func(c Client) error {
		return c.Unsubscribe()
	})
	if err != nil {
		r.slot.fail(err)
		return
	}
	a.state.subscribed = false
	for tp := range a.state.fetches {
		a.state.revoke(tp)
	}
	a.state.assignment = make(PartitionSet)
	r.slot.succeed(struct{}{})
}

func (a *actor[K, V]) handleSeek(ctx context.Context, r *seekRequest) {
	start := time.Now()
	err := a.client.withClient(ctx, func(c Client) error {
		return c.Seek(r.tp, r.offset)
	})
	a.observe("seek", r.tp.String(), "", time.Since(start), err, 0)
	if err != nil {
		r.slot.fail(err)
		return
	}
	r.slot.succeed(struct{}{})
}

func (a *actor[K, V]) handleOffsets(ctx context.Context, r *offsetsRequest) {
	var offsets map[TopicPartition]int64
	operation := "beginning_offsets"
	start := time.Now()
	err := a.client.withClient(ctx, func(c Client) error {
		var err error
		switch r.kind {
		case beginningOffsets:
			offsets, err = c.BeginningOffsets(r.partitions, r.timeout)
		case endOffsets:
			operation = "end_offsets"
			offsets, err = c.EndOffsets(r.partitions, r.timeout)
		}
		return err
	})
	a.observe(operation, "", "", time.Since(start), err, int64(len(r.partitions)))
	if err != nil {
		r.slot.fail(err)
		return
	}
	r.slot.succeed(offsets)
}

// handleAssignment answers with the actor's assignment snapshot, which only
// polls update. Reading the snapshot instead of the live client keeps the
// answer consistent with the revoked/assigned diffs delivered to listeners:
// a listener installed here sees every partition exactly once, either in the
// returned set or in a later OnAssigned.
func (a *actor[K, V]) handleAssignment(r *assignmentRequest) {
	if !a.state.subscribed {
		r.slot.fail(ErrNotSubscribed)
		return
	}
	if r.onRebalance != nil {
		a.state.listeners = append(a.state.listeners, r.onRebalance)
	}
	r.slot.succeed(a.state.assignment.clone())
}

func (a *actor[K, V]) handleFetch(ctx context.Context, r *fetchRequest[K, V]) {
	a.state.streaming = true
	if msgs := a.state.takeRecords(r.tp); len(msgs) > 0 {
		r.waiter.slot.succeed(fetchResult[K, V]{messages: msgs, reason: FetchRecords})
		return
	}
	a.state.registerFetch(r.tp, r.waiter)
	if !r.waiter.expiring {
		return
	}
	expire := &expireFetchRequest[K, V]{tp: r.tp, waiter: r.waiter}
	time.AfterFunc(a.cfg.FetchTimeout, func() {
		select {
		case a.requests <- expire:
		case <-ctx.Done():
		}
	})
}

func (a *actor[K, V]) handleExpireFetch(r *expireFetchRequest[K, V]) {
	// A poll may have delivered in the meantime; the write-once slot makes
	// the loser a no-op either way.
	if r.waiter.slot.succeed(fetchResult[K, V]{reason: FetchExpired}) {
		a.observe("fetch", r.tp.String(), "expired", 0, nil, 0)
	}
	a.state.dropWaiter(r.tp, r.waiter)
}

func (a *actor[K, V]) handleCommit(ctx context.Context, r *commitRequest) {
	start := time.Now()
	err := a.client.withClient(ctx, func(c Client) error {
		return c.CommitSync(r.offsets)
	})
	a.observe("commit", "", "", time.Since(start), err, int64(len(r.offsets)))
	if err != nil {
		r.slot.fail(err)
		return
	}
	r.slot.succeed(struct{}{})
}

// handlePoll invokes the client's poll under the lease, dispatches the
// returned records into pending fetches (or buffers them), and applies the
// assignment diff: revocations resolve pending fetches with FetchRevoked and
// drop buffered records, then the rebalance listeners run, still inside the
// poll and under the lease. An error here is fatal and poisons the consumer.
func (a *actor[K, V]) handlePoll(ctx context.Context) error {
	if !a.state.subscribed {
		return nil
	}
	start := time.Now()
	var recordCount int
	err := a.client.withClient(ctx, func(c Client) error {
		records, err := c.Poll(a.cfg.PollTimeout)
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		recordCount = len(records)
		newAssignment, err := c.Assignment()
		if err != nil {
			return fmt.Errorf("assignment: %w", err)
		}

		chunks, err := a.deserialize(records)
		if err != nil {
			return err
		}
		for tp, chunk := range chunks {
			a.state.deliver(tp, chunk)
		}

		previous := a.state.assignment
		revoked := previous.diff(newAssignment)
		assigned := newAssignment.diff(previous)
		for tp := range revoked {
			a.state.revoke(tp)
		}
		if len(revoked) > 0 {
			a.observe("rebalance", "", "revoked", 0, nil, int64(len(revoked)))
			if a.logger != nil {
				a.logger.Info("partitions revoked", nil, map[string]interface{}{"partitions": revoked.Slice()})
			}
			for _, l := range a.state.listeners {
				if l.OnRevoked != nil {
					l.OnRevoked(revoked)
				}
			}
		}
		if len(assigned) > 0 {
			a.observe("rebalance", "", "assigned", 0, nil, int64(len(assigned)))
			if a.logger != nil {
				a.logger.Info("partitions assigned", nil, map[string]interface{}{"partitions": assigned.Slice()})
			}
			for _, l := range a.state.listeners {
				if l.OnAssigned != nil {
					l.OnAssigned(assigned)
				}
			}
		}
		a.state.assignment = newAssignment
		return nil
	})
	a.observe("poll", "", "", time.Since(start), err, int64(recordCount))
	return err
}

// deserialize groups the raw records by partition, preserving the client's
// per-partition order, and turns each into a committable message.
func (a *actor[K, V]) deserialize(records []ClientRecord) (map[TopicPartition][]CommittableMessage[K, V], error) {
	if len(records) == 0 {
		return nil, nil
	}
	out := make(map[TopicPartition][]CommittableMessage[K, V])
	for _, rec := range records {
		key, err := a.keyDeserializer.Deserialize(rec.Topic, rec.Key)
		if err != nil {
			return nil, fmt.Errorf("deserialize key at %s-%d offset %d: %w", rec.Topic, rec.Partition, rec.Offset, err)
		}
		value, err := a.valueDeserializer.Deserialize(rec.Topic, rec.Value)
		if err != nil {
			return nil, fmt.Errorf("deserialize value at %s-%d offset %d: %w", rec.Topic, rec.Partition, rec.Offset, err)
		}
		tp := TopicPartition{Topic: rec.Topic, Partition: rec.Partition}
		out[tp] = append(out[tp], CommittableMessage[K, V]{
			Record: Record[K, V]{
				Topic:     rec.Topic,
				Partition: rec.Partition,
				Offset:    rec.Offset,
				Key:       key,
				Value:     value,
				Timestamp: rec.Timestamp,
				Headers:   rec.Headers,
			},
			Offset: CommittableOffset{
				tp:      tp,
				offset:  rec.Offset + 1,
				groupID: a.cfg.GroupID,
				commit:  a.commit,
			},
		})
	}
	return out, nil
}
