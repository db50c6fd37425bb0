package consumer

import (
	"context"
	"sync"
)

// defaultPartitionBuffer is the capacity of the outer partition-stream
// channel. Newly assigned partitions are announced from inside the poll
// handler; the buffer keeps a briefly slow reader from stalling the actor.
const defaultPartitionBuffer = 32

// PartitionStream is one per-partition lazy sequence produced by
// PartitionedStream. Its Records channel closes when the partition is revoked,
// the outer context is cancelled, or the consumer shuts down.
type PartitionStream[K, V any] struct {
	tp      TopicPartition
	records chan CommittableMessage[K, V]
}

// TopicPartition returns the partition this stream reads from.
func (p *PartitionStream[K, V]) TopicPartition() TopicPartition { return p.tp }

// Records returns the channel of committable messages for this partition.
func (p *PartitionStream[K, V]) Records() <-chan CommittableMessage[K, V] { return p.records }

// partitionPusher serializes sends on the outer channel against its close, so
// a rebalance listener announcing a new partition can never race teardown.
type partitionPusher[K, V any] struct {
	mu       sync.Mutex
	out      chan *PartitionStream[K, V]
	closed   bool
	shutdown <-chan struct{}
	ctx      context.Context
}

func (p *partitionPusher[K, V]) push(ps *PartitionStream[K, V]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.out <- ps:
	case <-p.ctx.Done():
	case <-p.shutdown:
	}
}

func (p *partitionPusher[K, V]) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.out)
	}
}

// PartitionedStream returns a channel of per-partition streams: one for every
// currently assigned partition and one for every partition assigned later in
// a rebalance. The outer channel closes when ctx is cancelled or the consumer
// shuts down. It fails fast with ErrNotSubscribed when the consumer is not
// subscribed.
//
// Revocation is delivered through the partition's own fetch, not through the
// rebalance listener, so an inner stream only ends after its pending fetch
// has resolved; no records are dropped at the revocation boundary.
func (c *Consumer[K, V]) PartitionedStream(ctx context.Context) (<-chan *PartitionStream[K, V], error) {
	pusher := &partitionPusher[K, V]{
		out:      make(chan *PartitionStream[K, V], defaultPartitionBuffer),
		shutdown: c.fiber.done,
		ctx:      ctx,
	}

	open := func(assigned PartitionSet) {
		for _, tp := range assigned.Slice() {
			ps := &PartitionStream[K, V]{
				tp:      tp,
				records: make(chan CommittableMessage[K, V]),
			}
			go c.runPartition(ctx, ps)
			pusher.push(ps)
		}
	}

	initial, err := c.assignment(ctx, &OnRebalance{
		OnAssigned: open,
		// Revocation reaches each inner stream through its fetch.
		OnRevoked: func(PartitionSet) {},
	})
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-c.fiber.done:
		}
		pusher.close()
	}()

	open(initial)
	return pusher.out, nil
}

// runPartition drives one inner stream: it issues non-expiring fetches and
// forwards each chunk through a capacity-1 queue, keeping at most one chunk
// prefetched while the reader works.
func (c *Consumer[K, V]) runPartition(ctx context.Context, ps *PartitionStream[K, V]) {
	chunks := make(chan []CommittableMessage[K, V], 1)

	go func() {
		defer close(chunks)
		for {
			res, err := c.fetch(ctx, ps.tp, false)
			if err != nil {
				return
			}
			if len(res.messages) > 0 {
				select {
				case chunks <- res.messages:
				case <-ctx.Done():
					return
				case <-c.fiber.done:
					return
				}
			}
			if res.reason == FetchRevoked {
				return
			}
		}
	}()

	defer close(ps.records)
	for chunk := range chunks {
		for _, msg := range chunk {
			select {
			case ps.records <- msg:
			case <-ctx.Done():
				return
			case <-c.fiber.done:
				return
			}
		}
	}
}
