package consumer

import (
	"regexp"
	"time"
)

// ClientRecord is a raw record as returned by the underlying client, before
// deserialization.
type ClientRecord struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
	Headers   []Header
}

// Client is the underlying Kafka client the consumer drives. Implementations
// are NOT required to be safe for concurrent use: the consumer serializes all
// calls onto a dedicated executor goroutine and never invokes two methods at
// the same time.
//
// The franz package provides the default implementation.
type Client interface {
	// Subscribe subscribes the client to the given topics, replacing any
	// previous subscription according to the client's own semantics.
	Subscribe(topics []string) error

	// SubscribePattern subscribes the client to all topics matching the
	// given pattern.
	SubscribePattern(pattern *regexp.Regexp) error

	// Unsubscribe drops the current subscription and leaves the group.
	Unsubscribe() error

	// Assignment returns the set of partitions currently assigned to this
	// client by the broker.
	Assignment() (PartitionSet, error)

	// Seek repositions the client so the next poll for tp starts at offset.
	Seek(tp TopicPartition, offset int64) error

	// Poll drains records from the broker, waiting at most timeout. It also
	// drives group membership: joins, heartbeats and rebalances happen
	// inside Poll. An empty result with a nil error means no records were
	// available within the timeout.
	Poll(timeout time.Duration) ([]ClientRecord, error)

	// BeginningOffsets returns the first offset for each given partition.
	BeginningOffsets(partitions []TopicPartition, timeout time.Duration) (map[TopicPartition]int64, error)

	// EndOffsets returns the one-past-the-last offset for each given partition.
	EndOffsets(partitions []TopicPartition, timeout time.Duration) (map[TopicPartition]int64, error)

	// CommitSync synchronously commits the given offsets for the client's
	// consumer group.
	CommitSync(offsets map[TopicPartition]int64) error

	// Close tears the client down, waiting at most timeout for in-flight
	// work to complete.
	Close(timeout time.Duration) error
}

// ClientFactory constructs the underlying client from the consumer
// configuration. The factory must return an unstarted client; the consumer
// subscribes and closes it through its own lifecycle.
type ClientFactory func(cfg Config) (Client, error)

// Deserializer turns the raw bytes of a record key or value into a typed
// value. Deserialization runs during poll handling, on the client's executor
// goroutine under the client lease; a deserialization failure is fatal for
// the consumer.
type Deserializer[T any] interface {
	Deserialize(topic string, data []byte) (T, error)
}

// DeserializerFunc adapts a plain function to the Deserializer interface.
type DeserializerFunc[T any] func(topic string, data []byte) (T, error)

// Deserialize implements Deserializer.
func (f DeserializerFunc[T]) Deserialize(topic string, data []byte) (T, error) {
	return f(topic, data)
}

// BytesDeserializer passes the raw bytes through unchanged.
func BytesDeserializer() Deserializer[[]byte] {
	return DeserializerFunc[[]byte](func(_ string, data []byte) ([]byte, error) {
		return data, nil
	})
}

// StringDeserializer decodes the raw bytes as a string.
func StringDeserializer() Deserializer[string] {
	return DeserializerFunc[string](func(_ string, data []byte) (string, error) {
		return string(data), nil
	})
}

// Logger is a structural interface matching the logger package's *Logger.
// It lets applications plug in their own logging without depending on zap.
type Logger interface {
	// Debug logs a message at debug level with optional error and fields.
	Debug(msg string, err error, fields ...map[string]interface{})

	// Info logs a message at info level with optional error and fields.
	Info(msg string, err error, fields ...map[string]interface{})

	// Warn logs a message at warning level with optional error and fields.
	Warn(msg string, err error, fields ...map[string]interface{})

	// Error logs a message at error level with optional error and fields.
	Error(msg string, err error, fields ...map[string]interface{})
}
