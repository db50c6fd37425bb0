package franz

import (
	"errors"
	"testing"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Aleph-Alpha/kstream/v1/consumer"
)

func TestConvertRecord(t *testing.T) {
	ts := time.Now()
	r := &kgo.Record{
		Topic:     "orders",
		Partition: 3,
		Offset:    42,
		Key:       []byte("k"),
		Value:     []byte("v"),
		Timestamp: ts,
		Headers: []kgo.RecordHeader{
			{Key: "traceparent", Value: []byte("00-abc-def-01")},
		},
	}

	got := convertRecord(r)

	if got.Topic != "orders" || got.Partition != 3 || got.Offset != 42 {
		t.Errorf("coordinates lost: %+v", got)
	}
	if string(got.Key) != "k" || string(got.Value) != "v" {
		t.Errorf("payload lost: %+v", got)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp lost: %v", got.Timestamp)
	}
	if len(got.Headers) != 1 || got.Headers[0].Key != "traceparent" {
		t.Errorf("headers lost: %+v", got.Headers)
	}
}

func TestCommitOffsetsShape(t *testing.T) {
	got := commitOffsets(map[consumer.TopicPartition]int64{
		{Topic: "a", Partition: 0}: 5,
		{Topic: "a", Partition: 1}: 7,
		{Topic: "b", Partition: 0}: 1,
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(got))
	}
	if got["a"][0].Offset != 5 || got["a"][1].Offset != 7 || got["b"][0].Offset != 1 {
		t.Errorf("offsets mangled: %+v", got)
	}
	if got["a"][0].Epoch != -1 {
		t.Errorf("expected epoch -1, got %d", got["a"][0].Epoch)
	}
}

func TestAssignmentTracksCallbacks(t *testing.T) {
	c := NewClient(Config{Brokers: []string{"broker:9092"}, GroupID: "g"})

	c.onAssigned(nil, nil, map[string][]int32{"orders": {0, 1}})
	c.onAssigned(nil, nil, map[string][]int32{"payments": {2}})

	assigned, err := c.Assignment()
	if err != nil {
		t.Fatalf("assignment: %v", err)
	}
	if len(assigned) != 3 {
		t.Fatalf("expected 3 partitions, got %v", assigned)
	}

	c.onRevoked(nil, nil, map[string][]int32{"orders": {1}})
	assigned, _ = c.Assignment()
	if len(assigned) != 2 {
		t.Fatalf("expected 2 partitions after revoke, got %v", assigned)
	}
	if assigned.Contains(consumer.TopicPartition{Topic: "orders", Partition: 1}) {
		t.Error("revoked partition still tracked")
	}
}

func TestOperationsBeforeSubscribe(t *testing.T) {
	c := NewClient(Config{Brokers: []string{"broker:9092"}, GroupID: "g"})

	if _, err := c.Poll(time.Millisecond); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted from Poll, got %v", err)
	}
	if err := c.Seek(consumer.TopicPartition{Topic: "t"}, 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted from Seek, got %v", err)
	}
	if err := c.CommitSync(nil); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted from CommitSync, got %v", err)
	}
	// Close and Unsubscribe are safe no-ops before any subscription.
	if err := c.Close(time.Second); err != nil {
		t.Errorf("close before subscribe: %v", err)
	}
	if err := c.Unsubscribe(); err != nil {
		t.Errorf("unsubscribe before subscribe: %v", err)
	}
}

func TestFactoryValidatesBrokers(t *testing.T) {
	factory := Factory()

	if _, err := factory(consumer.Config{}); err == nil {
		t.Error("expected an error without brokers")
	}

	cl, err := factory(consumer.Config{
		Brokers:    []string{"broker:9092"},
		GroupID:    "g",
		Properties: map[string]string{"client.id": "my-service"},
	})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	fc, ok := cl.(*Client)
	if !ok {
		t.Fatalf("expected *Client, got %T", cl)
	}
	if fc.cfg.ClientID != "my-service" {
		t.Errorf("client.id property not honoured: %q", fc.cfg.ClientID)
	}
}
