package consumer

import "time"

// Default values applied by NewConsumer when the corresponding Config field
// is zero.
const (
	// DefaultPollInterval is the pause between poll requests issued by the
	// poll scheduler.
	DefaultPollInterval = 50 * time.Millisecond

	// DefaultPollTimeout is how long a single client poll waits for records.
	DefaultPollTimeout = 50 * time.Millisecond

	// DefaultFetchTimeout bounds how long the unified stream waits on a
	// single partition before giving up on the current round.
	DefaultFetchTimeout = 500 * time.Millisecond

	// DefaultCloseTimeout is how long teardown waits for the underlying
	// client to close.
	DefaultCloseTimeout = 20 * time.Second

	// DefaultAPITimeout is the fallback timeout for BeginningOffsets.
	DefaultAPITimeout = 60 * time.Second

	// DefaultRequestTimeout is the fallback timeout for EndOffsets.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRequestBuffer is the capacity of the actor's request mailbox.
	DefaultRequestBuffer = 128
)

// Config defines the configuration for a Consumer.
type Config struct {
	// Brokers lists the bootstrap broker addresses, host:port.
	Brokers []string

	// GroupID is the consumer group to join. Committable offsets carry it.
	GroupID string

	// PollInterval is the pause between polls of the underlying client.
	// The poll scheduler sleeps this long after each poll request it
	// manages to enqueue.
	PollInterval time.Duration

	// PollTimeout is passed to the underlying client's Poll call.
	PollTimeout time.Duration

	// FetchTimeout bounds each per-partition fetch issued by the unified
	// stream. A partition that produced nothing within this window is
	// skipped for the round so the other partitions are not held back.
	FetchTimeout time.Duration

	// CloseTimeout is passed to the underlying client's Close call during
	// teardown.
	CloseTimeout time.Duration

	// DefaultAPITimeout is used by BeginningOffsets when the caller does
	// not pass an explicit timeout.
	DefaultAPITimeout time.Duration

	// RequestTimeout is used by EndOffsets when the caller does not pass an
	// explicit timeout.
	RequestTimeout time.Duration

	// RequestBuffer is the capacity of the actor's request mailbox. Facade
	// calls block (honouring their context) once the mailbox is full.
	RequestBuffer int

	// Executor, when set, is the dedicated execution context all
	// underlying-client calls run on. When nil the consumer provisions its
	// own and closes it during teardown; a supplied executor is left
	// running.
	Executor *Executor

	// Factory constructs the underlying client. Required.
	Factory ClientFactory

	// Logger receives the consumer's own diagnostics. Optional; when nil
	// the consumer stays silent.
	Logger Logger

	// Properties carries raw client properties the factory may interpret,
	// such as "client.id". The consumer core ignores them.
	Properties map[string]string
}

// withDefaults returns a copy of the config with zero fields replaced by the
// package defaults.
func (c Config) withDefaults() Config {
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.CloseTimeout == 0 {
		c.CloseTimeout = DefaultCloseTimeout
	}
	if c.DefaultAPITimeout == 0 {
		c.DefaultAPITimeout = DefaultAPITimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.RequestBuffer == 0 {
		c.RequestBuffer = DefaultRequestBuffer
	}
	return c
}
