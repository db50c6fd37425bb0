package consumer

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"
)

// fakeClient is a scripted in-memory Client. Tests drive it from the outside
// (produce, setAssignment) while the consumer drives it through the
// synchronized handle, so everything is guarded by one mutex.
type fakeClient struct {
	mu sync.Mutex

	subscribedTopics []string
	pattern          string
	unsubscribed     bool

	assignment PartitionSet

	// log holds every record ever produced per partition; pos is the
	// per-partition read cursor. Offsets are contiguous from zero, so a
	// seek simply moves the cursor.
	log map[TopicPartition][]ClientRecord
	pos map[TopicPartition]int

	committed map[TopicPartition]int64

	subscribeErr error
	pollErr      error
	seekErr      error

	pollCount          int
	closeCount         int
	lastOffsetsTimeout time.Duration
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		assignment: make(PartitionSet),
		log:        make(map[TopicPartition][]ClientRecord),
		pos:        make(map[TopicPartition]int),
		committed:  make(map[TopicPartition]int64),
	}
}

// produce appends a record to the partition's log, like a broker would.
func (f *fakeClient) produce(tp TopicPartition, key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log[tp] = append(f.log[tp], ClientRecord{
		Topic:     tp.Topic,
		Partition: tp.Partition,
		Offset:    int64(len(f.log[tp])),
		Key:       []byte(key),
		Value:     []byte(value),
		Timestamp: time.Now(),
	})
}

// setAssignment replaces the broker-granted assignment, as a rebalance would.
func (f *fakeClient) setAssignment(tps ...TopicPartition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignment = NewPartitionSet(tps...)
}

func (f *fakeClient) polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pollCount
}

func (f *fakeClient) committedOffset(tp TopicPartition) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	off, ok := f.committed[tp]
	return off, ok
}

func (f *fakeClient) Subscribe(topics []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.subscribedTopics = topics
	f.unsubscribed = false
	return nil
}

func (f *fakeClient) SubscribePattern(pattern *regexp.Regexp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.pattern = pattern.String()
	f.unsubscribed = false
	return nil
}

func (f *fakeClient) Unsubscribe() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = true
	f.assignment = make(PartitionSet)
	return nil
}

func (f *fakeClient) Assignment() (PartitionSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assignment.clone(), nil
}

func (f *fakeClient) Seek(tp TopicPartition, offset int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seekErr != nil {
		return f.seekErr
	}
	f.pos[tp] = int(offset)
	return nil
}

func (f *fakeClient) Poll(time.Duration) ([]ClientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollCount++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	var out []ClientRecord
	for _, tp := range f.assignment.Slice() {
		records := f.log[tp]
		if f.pos[tp] < len(records) {
			out = append(out, records[f.pos[tp]:]...)
			f.pos[tp] = len(records)
		}
	}
	return out, nil
}

func (f *fakeClient) BeginningOffsets(partitions []TopicPartition, timeout time.Duration) (map[TopicPartition]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOffsetsTimeout = timeout
	out := make(map[TopicPartition]int64, len(partitions))
	for _, tp := range partitions {
		out[tp] = 0
	}
	return out, nil
}

func (f *fakeClient) EndOffsets(partitions []TopicPartition, timeout time.Duration) (map[TopicPartition]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOffsetsTimeout = timeout
	out := make(map[TopicPartition]int64, len(partitions))
	for _, tp := range partitions {
		out[tp] = int64(len(f.log[tp]))
	}
	return out, nil
}

func (f *fakeClient) CommitSync(offsets map[TopicPartition]int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tp, off := range offsets {
		f.committed[tp] = off
	}
	return nil
}

func (f *fakeClient) Close(time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCount++
	return nil
}

// newTestConsumer builds a string/string consumer over the fake client with
// test-friendly timings and tears it down with the test.
func newTestConsumer(t *testing.T, fc *fakeClient, opts ...func(*Config)) *Consumer[string, string] {
	t.Helper()
	cfg := Config{
		Brokers:      []string{"broker:9092"},
		GroupID:      "test-group",
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  time.Millisecond,
		FetchTimeout: 100 * time.Millisecond,
		CloseTimeout: time.Second,
		Factory: func(Config) (Client, error) {
			return fc, nil
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	c, err := NewConsumer(cfg, StringDeserializer(), StringDeserializer())
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	t.Cleanup(func() {
		c.Fiber().Cancel()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Fiber().Join(ctx); err != nil {
			t.Logf("join after cancel: %v", err)
		}
	})
	return c
}

// recvMessage reads one message from ch, failing the test after timeout.
func recvMessage[K, V any](t *testing.T, ch <-chan CommittableMessage[K, V], timeout time.Duration) CommittableMessage[K, V] {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("stream closed while expecting a message")
		}
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out after %s waiting for a message", timeout)
	}
	panic("unreachable")
}
