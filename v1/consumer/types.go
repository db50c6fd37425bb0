package consumer

import (
	"context"
	"fmt"
	"time"
)

// TopicPartition identifies a single partition of a topic. It is a value type
// and can be used as a map key.
type TopicPartition struct {
	Topic     string
	Partition int32
}

// String returns the conventional "topic-partition" rendering.
func (tp TopicPartition) String() string {
	return fmt.Sprintf("%s-%d", tp.Topic, tp.Partition)
}

// Header is a single Kafka record header.
type Header struct {
	Key   string
	Value []byte
}

// Record is a consumed Kafka record with its key and value already passed
// through the configured deserializers.
type Record[K, V any] struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       K
	Value     V
	Timestamp time.Time
	Headers   []Header
}

// TopicPartition returns the partition this record was read from.
func (r Record[K, V]) TopicPartition() TopicPartition {
	return TopicPartition{Topic: r.Topic, Partition: r.Partition}
}

// commitFunc commits the given offsets on behalf of the consumer that
// produced a CommittableOffset.
type commitFunc func(ctx context.Context, offsets map[TopicPartition]int64) error

// CommittableOffset names the next offset to commit on behalf of a consumed
// record, i.e. the record's offset plus one. The consumer never commits on
// its own; it only yields these handles. A CommittableOffset is immutable.
type CommittableOffset struct {
	tp      TopicPartition
	offset  int64
	groupID string
	commit  commitFunc
}

// TopicPartition returns the partition the offset belongs to.
func (o CommittableOffset) TopicPartition() TopicPartition { return o.tp }

// Offset returns the offset that would be committed, which is one past the
// offset of the record the handle was created for.
func (o CommittableOffset) Offset() int64 { return o.offset }

// ConsumerGroupID returns the group the offset would be committed for, or the
// empty string when the consumer is not part of a group.
func (o CommittableOffset) ConsumerGroupID() string { return o.groupID }

// Commit synchronously commits this offset through the consumer the handle
// originated from. It fails with ErrConsumerShutdown once the consumer has
// been torn down.
func (o CommittableOffset) Commit(ctx context.Context) error {
	return o.commit(ctx, map[TopicPartition]int64{o.tp: o.offset})
}

// String returns a stable textual representation of the handle.
func (o CommittableOffset) String() string {
	if o.groupID == "" {
		return fmt.Sprintf("CommittableOffset(%s -> %d)", o.tp, o.offset)
	}
	return fmt.Sprintf("CommittableOffset(%s -> %d, %s)", o.tp, o.offset, o.groupID)
}

// CommittableMessage pairs a consumed record with the offset handle that
// commits it. Messages are immutable once produced.
type CommittableMessage[K, V any] struct {
	Record Record[K, V]
	Offset CommittableOffset
}

// FetchReason states why a fetch completed.
type FetchReason int

const (
	// FetchRecords means the fetch delivered records from a poll.
	FetchRecords FetchReason = iota

	// FetchRevoked means the fetched partition was revoked from this
	// consumer before (or while) records were pending; the chunk is empty.
	FetchRevoked

	// FetchExpired means an expiring fetch hit its deadline before any
	// records arrived; the chunk is empty.
	FetchExpired
)

// String returns the reason name.
func (r FetchReason) String() string {
	switch r {
	case FetchRecords:
		return "records"
	case FetchRevoked:
		return "revoked"
	case FetchExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// OnRebalance carries the callbacks invoked when the broker changes this
// consumer's assignment. Both callbacks run on the client's executor
// goroutine, inside the poll that observed the change and under the client
// lease, while the actor waits for that poll; they must not block for long.
type OnRebalance struct {
	// OnAssigned is invoked with the set of newly assigned partitions.
	OnAssigned func(assigned PartitionSet)

	// OnRevoked is invoked with the set of revoked partitions, after all
	// pending fetches for those partitions have been completed with
	// FetchRevoked.
	OnRevoked func(revoked PartitionSet)
}
