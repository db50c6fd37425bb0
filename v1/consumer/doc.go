// Package consumer provides a streaming, concurrency-safe Kafka consumer
// built on top of a single-threaded underlying client.
//
// Kafka clients in the style of the Java consumer are not safe for concurrent
// use and expect to be driven from one thread. This package turns such a
// client into a backpressured source of committable records that many
// goroutines can share: all client access is serialized through an actor
// goroutine and executed on a dedicated executor goroutine, while callers
// communicate with the actor exclusively through channels and write-once
// completion slots.
//
// Core Features:
//   - Unified stream of committable messages across all assigned partitions
//   - Partitioned stream: one lazy sub-stream per assigned partition, opened
//     and closed as the broker rebalances the group
//   - Paced polling: a capacity-1 poll channel collapses poll bursts, so the
//     client is polled at most once per poll interval; records polled while
//     no fetch is pending for their partition are buffered until one arrives
//   - Offset queries, seeking, and synchronous commits through the same actor
//   - Pluggable underlying client (see the franz package for the default)
//
// Basic Usage:
//
//	cfg := consumer.Config{
//		Brokers: []string{"localhost:9092"},
//		GroupID: "order-processors",
//		Factory: franz.Factory(),
//	}
//
//	c, err := consumer.NewConsumer(cfg, consumer.StringDeserializer(), consumer.StringDeserializer())
//	if err != nil {
//		return err
//	}
//	defer c.Fiber().Cancel()
//
//	if err := c.SubscribeTo(ctx, "orders"); err != nil {
//		return err
//	}
//
//	records, err := c.Stream(ctx)
//	if err != nil {
//		return err
//	}
//	for msg := range records {
//		process(msg.Record)
//		if err := msg.Offset.Commit(ctx); err != nil {
//			log.Error("commit failed", err, nil)
//		}
//	}
//
// Partitioned Consumption:
//
// For workloads that process partitions independently, PartitionedStream
// yields one stream per assigned partition. Each inner stream ends when its
// partition is revoked, after its in-flight fetch has resolved, so no records
// are lost across a rebalance boundary:
//
//	partitions, err := c.PartitionedStream(ctx)
//	if err != nil {
//		return err
//	}
//	for ps := range partitions {
//		go func() {
//			for msg := range ps.Records() {
//				process(msg.Record)
//			}
//		}()
//	}
//
// Lifecycle:
//
// NewConsumer starts the consumer; Fiber() exposes its lifecycle handle.
// Cancelling the fiber stops the poll scheduler and the actor, closes the
// underlying client, and closes every open stream. Operations attempted
// afterwards fail with ErrConsumerShutdown. An unexpected failure inside the
// actor (a poll error, a deserialization error) tears the consumer down the
// same way; Join returns the cause.
//
// Distributed Tracing:
//
// Producers that propagate trace context through record headers can be
// continued on the consuming side:
//
//	ctx = msg.Record.TraceContext(ctx)
//	ctx, span := tracer.Start(ctx, "process-order")
//	defer span.End()
//
// Thread Safety:
//
// All methods on Consumer are safe for concurrent use by multiple goroutines.
// The underlying client never is, and never needs to be.
package consumer
