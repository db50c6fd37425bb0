package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPartitionedStreamNotSubscribed(t *testing.T) {
	fc := newFakeClient()
	c := newTestConsumer(t, fc)

	_, err := c.PartitionedStream(context.Background())
	if !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("expected ErrNotSubscribed, got %v", err)
	}
}

// receivePartitionStreams waits for n inner streams from the outer channel.
func receivePartitionStreams[K, V any](t *testing.T, outer <-chan *PartitionStream[K, V], n int) map[TopicPartition]*PartitionStream[K, V] {
	t.Helper()
	out := make(map[TopicPartition]*PartitionStream[K, V], n)
	deadline := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case ps, ok := <-outer:
			if !ok {
				t.Fatalf("outer stream closed after %d of %d partitions", len(out), n)
			}
			out[ps.TopicPartition()] = ps
		case <-deadline:
			t.Fatalf("timed out waiting for %d partition streams, got %d", n, len(out))
		}
	}
	return out
}

func TestPartitionedStreamDeliversPerPartition(t *testing.T) {
	fc := newFakeClient()
	c := newTestConsumer(t, fc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tp0 := TopicPartition{Topic: "t", Partition: 0}
	tp1 := TopicPartition{Topic: "t", Partition: 1}

	fc.produce(tp0, "A", "1")
	fc.produce(tp0, "B", "2")
	fc.produce(tp1, "X", "3")
	fc.produce(tp1, "Y", "4")

	if err := c.Subscribe(ctx, []string{"t"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	fc.setAssignment(tp0, tp1)

	outer, err := c.PartitionedStream(ctx)
	if err != nil {
		t.Fatalf("partitioned stream: %v", err)
	}
	streams := receivePartitionStreams(t, outer, 2)

	var mu sync.Mutex
	perPartition := make(map[TopicPartition][]string)
	var wg sync.WaitGroup
	for tp, ps := range streams {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 2; i++ {
				msg := recvMessage(t, ps.Records(), 5*time.Second)
				mu.Lock()
				perPartition[tp] = append(perPartition[tp], msg.Record.Key)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got := make(map[string]struct{})
	for _, keys := range perPartition {
		for _, k := range keys {
			got[k] = struct{}{}
		}
	}
	for _, want := range []string{"A", "B", "X", "Y"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing key %q in %v", want, perPartition)
		}
	}
	// Per-partition order preserved.
	if keys := perPartition[tp0]; len(keys) != 2 || keys[0] != "A" || keys[1] != "B" {
		t.Errorf("partition 0 out of order: %v", keys)
	}
	if keys := perPartition[tp1]; len(keys) != 2 || keys[0] != "X" || keys[1] != "Y" {
		t.Errorf("partition 1 out of order: %v", keys)
	}
}

func TestPartitionedStreamClosesRevokedPartition(t *testing.T) {
	fc := newFakeClient()
	c := newTestConsumer(t, fc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tp0 := TopicPartition{Topic: "t", Partition: 0}
	tp1 := TopicPartition{Topic: "t", Partition: 1}

	if err := c.Subscribe(ctx, []string{"t"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	fc.setAssignment(tp0, tp1)

	outer, err := c.PartitionedStream(ctx)
	if err != nil {
		t.Fatalf("partitioned stream: %v", err)
	}
	streams := receivePartitionStreams(t, outer, 2)

	// The broker moves partition 1 to another group member.
	fc.setAssignment(tp0)

	select {
	case _, ok := <-streams[tp1].Records():
		if ok {
			t.Fatal("expected revoked partition stream to close without records")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("revoked partition stream did not close")
	}

	// The surviving partition keeps delivering.
	fc.produce(tp0, "still", "alive")
	msg := recvMessage(t, streams[tp0].Records(), 5*time.Second)
	if msg.Record.Key != "still" {
		t.Errorf("expected key still, got %q", msg.Record.Key)
	}
}

func TestPartitionedStreamOpensStreamsForLaterAssignments(t *testing.T) {
	fc := newFakeClient()
	c := newTestConsumer(t, fc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tp0 := TopicPartition{Topic: "t", Partition: 0}
	tp1 := TopicPartition{Topic: "t", Partition: 1}

	if err := c.Subscribe(ctx, []string{"t"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	fc.setAssignment(tp0)

	outer, err := c.PartitionedStream(ctx)
	if err != nil {
		t.Fatalf("partitioned stream: %v", err)
	}
	receivePartitionStreams(t, outer, 1)

	// A rebalance grants an additional partition: a new inner stream
	// appears on the same outer channel.
	fc.setAssignment(tp0, tp1)
	streams := receivePartitionStreams(t, outer, 1)
	if _, ok := streams[tp1]; !ok {
		t.Fatalf("expected stream for %v, got %v", tp1, streams)
	}

	fc.produce(tp1, "late", "arrival")
	msg := recvMessage(t, streams[tp1].Records(), 5*time.Second)
	if msg.Record.Key != "late" {
		t.Errorf("expected key late, got %q", msg.Record.Key)
	}
}

func TestPartitionedStreamOuterClosesOnShutdown(t *testing.T) {
	fc := newFakeClient()
	c := newTestConsumer(t, fc)
	ctx := context.Background()

	if err := c.Subscribe(ctx, []string{"t"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	outer, err := c.PartitionedStream(ctx)
	if err != nil {
		t.Fatalf("partitioned stream: %v", err)
	}

	c.Fiber().Cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-outer:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("outer stream did not close on shutdown")
		}
	}
}
