package franz

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/Aleph-Alpha/kstream/v1/consumer"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// ErrNotStarted is returned for operations that need an active subscription,
// before Subscribe or SubscribePattern has been called.
var ErrNotStarted = errors.New("client has no active subscription")

// Client implements consumer.Client on top of a kgo.Client. The kgo client is
// created lazily on Subscribe because that is when the topic set becomes
// known; subscribing again replaces the previous subscription by closing and
// rebuilding the kgo client.
type Client struct {
	cfg Config

	cl  *kgo.Client
	adm *kadm.Client

	// assigned is written by kgo's rebalance callbacks, which run on kgo's
	// own goroutines during Poll, and read by Assignment.
	mu       sync.Mutex
	assigned consumer.PartitionSet
}

// NewClient returns an unstarted client. No connection is made until
// Subscribe or SubscribePattern.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:      cfg,
		assigned: make(consumer.PartitionSet),
	}
}

// Factory returns a consumer.ClientFactory producing franz-go backed clients
// from the consumer configuration. The "client.id" property is honoured.
func Factory(extra ...kgo.Opt) consumer.ClientFactory {
	return func(cfg consumer.Config) (consumer.Client, error) {
		if len(cfg.Brokers) == 0 {
			return nil, errors.New("franz: no brokers configured")
		}
		return NewClient(Config{
			Brokers:   cfg.Brokers,
			GroupID:   cfg.GroupID,
			ClientID:  cfg.Properties["client.id"],
			ExtraOpts: extra,
		}), nil
	}
}

// Subscribe implements consumer.Client.
func (c *Client) Subscribe(topics []string) error {
	return c.start(kgo.ConsumeTopics(topics...))
}

// SubscribePattern implements consumer.Client. The pattern's textual form is
// handed to kgo's regex consuming, which matches it against full topic names.
func (c *Client) SubscribePattern(pattern *regexp.Regexp) error {
	return c.start(kgo.ConsumeRegex(), kgo.ConsumeTopics(pattern.String()))
}

func (c *Client) start(consumeOpts ...kgo.Opt) error {
	if c.cl != nil {
		c.cl.Close()
		c.cl, c.adm = nil, nil
		c.resetAssignment()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(c.cfg.Brokers...),
		kgo.OnPartitionsAssigned(c.onAssigned),
		kgo.OnPartitionsRevoked(c.onRevoked),
		kgo.OnPartitionsLost(c.onRevoked),
	}
	if c.cfg.GroupID != "" {
		opts = append(opts, kgo.ConsumerGroup(c.cfg.GroupID), kgo.DisableAutoCommit())
	}
	if c.cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.cfg.ClientID))
	}
	opts = append(opts, c.cfg.ExtraOpts...)
	opts = append(opts, consumeOpts...)

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return fmt.Errorf("franz: create client: %w", err)
	}
	c.cl = cl
	c.adm = kadm.NewClient(cl)
	return nil
}

// Unsubscribe implements consumer.Client by leaving the group and dropping
// the kgo client. A later Subscribe builds a fresh one.
func (c *Client) Unsubscribe() error {
	if c.cl == nil {
		return nil
	}
	c.cl.Close()
	c.cl, c.adm = nil, nil
	c.resetAssignment()
	return nil
}

// Assignment implements consumer.Client.
func (c *Client) Assignment() (consumer.PartitionSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(consumer.PartitionSet, len(c.assigned))
	for tp := range c.assigned {
		out[tp] = struct{}{}
	}
	return out, nil
}

// Seek implements consumer.Client.
func (c *Client) Seek(tp consumer.TopicPartition, offset int64) error {
	if c.cl == nil {
		return ErrNotStarted
	}
	c.cl.SetOffsets(map[string]map[int32]kgo.EpochOffset{
		tp.Topic: {tp.Partition: {Epoch: -1, Offset: offset}},
	})
	return nil
}

// Poll implements consumer.Client. Group membership, heartbeats and
// rebalances are all driven from inside PollFetches; the rebalance callbacks
// fire before it returns, so Assignment is current once Poll completes.
func (c *Client) Poll(timeout time.Duration) ([]consumer.ClientRecord, error) {
	if c.cl == nil {
		return nil, ErrNotStarted
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fetches := c.cl.PollFetches(ctx)
	for _, fetchErr := range fetches.Errors() {
		// Hitting the poll deadline is the steady state of an idle
		// consumer, not a failure.
		if errors.Is(fetchErr.Err, context.DeadlineExceeded) || errors.Is(fetchErr.Err, context.Canceled) {
			continue
		}
		return nil, fmt.Errorf("franz: fetch %s-%d: %w", fetchErr.Topic, fetchErr.Partition, fetchErr.Err)
	}

	var out []consumer.ClientRecord
	fetches.EachRecord(func(r *kgo.Record) {
		out = append(out, convertRecord(r))
	})
	return out, nil
}

// BeginningOffsets implements consumer.Client.
func (c *Client) BeginningOffsets(partitions []consumer.TopicPartition, timeout time.Duration) (map[consumer.TopicPartition]int64, error) {
	return c.listOffsets(partitions, timeout, true)
}

// EndOffsets implements consumer.Client.
func (c *Client) EndOffsets(partitions []consumer.TopicPartition, timeout time.Duration) (map[consumer.TopicPartition]int64, error) {
	return c.listOffsets(partitions, timeout, false)
}

func (c *Client) listOffsets(partitions []consumer.TopicPartition, timeout time.Duration, beginning bool) (map[consumer.TopicPartition]int64, error) {
	if c.adm == nil {
		return nil, ErrNotStarted
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	topicSet := make(map[string]struct{})
	var topicNames []string
	for _, tp := range partitions {
		if _, ok := topicSet[tp.Topic]; !ok {
			topicSet[tp.Topic] = struct{}{}
			topicNames = append(topicNames, tp.Topic)
		}
	}

	var listed kadm.ListedOffsets
	var err error
	if beginning {
		listed, err = c.adm.ListStartOffsets(ctx, topicNames...)
	} else {
		listed, err = c.adm.ListEndOffsets(ctx, topicNames...)
	}
	if err != nil {
		return nil, fmt.Errorf("franz: list offsets: %w", err)
	}

	out := make(map[consumer.TopicPartition]int64, len(partitions))
	for _, tp := range partitions {
		l, ok := listed[tp.Topic][tp.Partition]
		if !ok {
			return nil, fmt.Errorf("franz: no offset listed for %s", tp)
		}
		if l.Err != nil {
			return nil, fmt.Errorf("franz: list offsets for %s: %w", tp, l.Err)
		}
		out[tp] = l.Offset
	}
	return out, nil
}

// CommitSync implements consumer.Client.
func (c *Client) CommitSync(offsets map[consumer.TopicPartition]int64) error {
	if c.cl == nil {
		return ErrNotStarted
	}
	var commitErr error
	c.cl.CommitOffsetsSync(context.Background(), commitOffsets(offsets),
		func(_ *kgo.Client, _ *kmsg.OffsetCommitRequest, _ *kmsg.OffsetCommitResponse, err error) {
			if err != nil && commitErr == nil {
				commitErr = err
			}
		})
	if commitErr != nil {
		return fmt.Errorf("franz: commit: %w", commitErr)
	}
	return nil
}

// Close implements consumer.Client. kgo's Close has no deadline of its own,
// so it runs in a helper goroutine bounded by timeout.
func (c *Client) Close(timeout time.Duration) error {
	if c.cl == nil {
		return nil
	}
	cl := c.cl
	c.cl, c.adm = nil, nil

	done := make(chan struct{})
	go func() {
		cl.Close()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("franz: close did not finish within %s", timeout)
	}
}

func (c *Client) onAssigned(_ context.Context, _ *kgo.Client, assigned map[string][]int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, parts := range assigned {
		for _, p := range parts {
			c.assigned[consumer.TopicPartition{Topic: topic, Partition: p}] = struct{}{}
		}
	}
}

func (c *Client) onRevoked(_ context.Context, _ *kgo.Client, revoked map[string][]int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, parts := range revoked {
		for _, p := range parts {
			delete(c.assigned, consumer.TopicPartition{Topic: topic, Partition: p})
		}
	}
}

func (c *Client) resetAssignment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assigned = make(consumer.PartitionSet)
}

func convertRecord(r *kgo.Record) consumer.ClientRecord {
	headers := make([]consumer.Header, len(r.Headers))
	for i, h := range r.Headers {
		headers[i] = consumer.Header{Key: h.Key, Value: h.Value}
	}
	return consumer.ClientRecord{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Timestamp: r.Timestamp,
		Headers:   headers,
	}
}

// commitOffsets converts the flat offset map into kgo's nested shape. The
// epoch is left unknown; brokers accept -1 as "no epoch".
func commitOffsets(offsets map[consumer.TopicPartition]int64) map[string]map[int32]kgo.EpochOffset {
	out := make(map[string]map[int32]kgo.EpochOffset)
	for tp, off := range offsets {
		if out[tp.Topic] == nil {
			out[tp.Topic] = make(map[int32]kgo.EpochOffset)
		}
		out[tp.Topic][tp.Partition] = kgo.EpochOffset{Epoch: -1, Offset: off}
	}
	return out
}
