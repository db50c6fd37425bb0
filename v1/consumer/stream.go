package consumer

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Stream returns a single channel carrying committable messages from every
// assigned partition, with per-partition order preserved. The channel closes
// when ctx is cancelled or the consumer shuts down; it fails fast with
// ErrNotSubscribed when the consumer is not subscribed.
//
// Internally the stream works in rounds: it asks the actor for the current
// assignment, issues one expiring fetch per assigned partition in parallel,
// emits every nonempty chunk as it arrives, and starts the next round once
// all fetches of the current one resolved. The fetch timeout bounds each
// round, so one idle partition cannot hold back the others.
func (c *Consumer[K, V]) Stream(ctx context.Context) (<-chan CommittableMessage[K, V], error) {
	if _, err := c.Assignment(ctx); err != nil {
		return nil, err
	}
	out := make(chan CommittableMessage[K, V])
	go c.streamLoop(ctx, out)
	return out, nil
}

func (c *Consumer[K, V]) streamLoop(ctx context.Context, out chan<- CommittableMessage[K, V]) {
	defer close(out)
	for {
		assigned, err := c.Assignment(ctx)
		if err != nil {
			return
		}
		if len(assigned) == 0 {
			// Nothing to fetch from yet; look again after a poll interval.
			if !c.sleep(ctx, c.cfg.PollInterval) {
				return
			}
			continue
		}

		// Chunks has room for one result per fetcher, so fetchers never
		// block and emission starts while slow partitions are pending.
		chunks := make(chan []CommittableMessage[K, V], len(assigned))
		g, fetchCtx := errgroup.WithContext(ctx)
		for tp := range assigned {
			g.Go(func() error {
				res, err := c.fetch(fetchCtx, tp, true)
				if err != nil {
					return err
				}
				if len(res.messages) > 0 {
					chunks <- res.messages
				}
				return nil
			})
		}
		roundDone := make(chan error, 1)
		go func() {
			err := g.Wait()
			close(chunks)
			roundDone <- err
		}()

		for chunk := range chunks {
			for _, msg := range chunk {
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				case <-c.fiber.done:
					return
				}
			}
		}
		if err := <-roundDone; err != nil {
			return
		}
	}
}

// sleep pauses for d, returning false when ctx or the consumer finished first.
func (c *Consumer[K, V]) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.fiber.done:
		return false
	}
}
