// Package franz implements the consumer package's underlying Client on top
// of franz-go.
//
// The client maps the poll-style contract onto kgo: Subscribe builds the
// kgo.Client with the group and topic options, Poll drives PollFetches (and
// with it group membership, heartbeats and rebalances), and the assignment
// set is maintained from kgo's partition callbacks. Offset queries go through
// the kadm admin companion.
//
// Like every consumer.Client implementation, the client here is NOT safe for
// concurrent use. The consumer serializes all calls onto its dedicated
// executor; do not share a *Client outside of one consumer.
//
// Usage:
//
//	cfg := consumer.Config{
//		Brokers: []string{"localhost:9092"},
//		GroupID: "order-processors",
//		Factory: franz.Factory(),
//	}
//	c, err := consumer.NewConsumer(cfg, consumer.StringDeserializer(), consumer.StringDeserializer())
package franz
