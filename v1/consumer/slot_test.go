package consumer

import (
	"context"
	"errors"
	"testing"
)

func TestSlotFirstWriteWins(t *testing.T) {
	s := newSlot[int]()

	if !s.succeed(1) {
		t.Fatal("first write should win")
	}
	if s.succeed(2) {
		t.Error("second succeed should be a no-op")
	}
	if s.fail(errors.New("late")) {
		t.Error("fail after succeed should be a no-op")
	}

	v, err := s.await(context.Background(), nil)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if v != 1 {
		t.Errorf("expected first value 1, got %d", v)
	}
}

func TestSlotFailurePropagates(t *testing.T) {
	s := newSlot[int]()
	cause := errors.New("boom")

	s.fail(cause)

	_, err := s.await(context.Background(), nil)
	if !errors.Is(err, cause) {
		t.Errorf("expected cause, got %v", err)
	}
}

func TestSlotCompleted(t *testing.T) {
	s := newSlot[int]()
	if s.completed() {
		t.Error("fresh slot should not be completed")
	}
	s.succeed(1)
	if !s.completed() {
		t.Error("slot should report completed after write")
	}
}

func TestSlotAwaitShutdownWins(t *testing.T) {
	s := newSlot[int]()
	shutdown := make(chan struct{})
	close(shutdown)

	_, err := s.await(context.Background(), shutdown)
	if !errors.Is(err, ErrConsumerShutdown) {
		t.Errorf("expected ErrConsumerShutdown, got %v", err)
	}
}

func TestSlotAwaitContextWins(t *testing.T) {
	s := newSlot[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.await(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
