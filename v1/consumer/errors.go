package consumer

import "errors"

// Sentinel errors surfaced by the consumer. Client errors are wrapped with
// %w and propagated verbatim, never translated into these.
var (
	// ErrNotSubscribed is returned when a stream or assignment is requested
	// before any Subscribe call succeeded, or after Unsubscribe.
	ErrNotSubscribed = errors.New("consumer is not subscribed to any topics")

	// ErrConsumerShutdown is returned for any operation posted after the
	// consumer has been cancelled or has failed.
	ErrConsumerShutdown = errors.New("consumer has been shut down")

	// ErrEmptyTopics is returned by Subscribe when the topic collection is
	// empty.
	ErrEmptyTopics = errors.New("subscribe requires at least one topic")

	// ErrExecutorClosed is returned when work is submitted to an executor
	// that has already been closed.
	ErrExecutorClosed = errors.New("executor is closed")

	// ErrNoFactory is returned by NewConsumer when the configuration does
	// not name a client factory.
	ErrNoFactory = errors.New("no client factory configured")

	// ErrCloseTimeout is returned when the underlying client did not shut
	// down within the configured close timeout.
	ErrCloseTimeout = errors.New("timed out closing the underlying client")
)
