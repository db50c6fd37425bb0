package franz

import "github.com/twmb/franz-go/pkg/kgo"

// Config defines the configuration for the franz-go backed client.
type Config struct {
	// Brokers lists the bootstrap broker addresses, host:port.
	Brokers []string

	// GroupID is the consumer group to join.
	GroupID string

	// ClientID is the client identifier reported to the brokers. Optional.
	ClientID string

	// ExtraOpts are appended to the options this package derives from the
	// other fields, as an escape hatch for franz-go settings not modelled
	// here (SASL, TLS, fetch sizing). They must not include consume or
	// group options; those are owned by Subscribe.
	ExtraOpts []kgo.Opt
}
