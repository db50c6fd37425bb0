package metrics

// Config defines the configuration for the metrics server.
type Config struct {
	// Address is the listen address of the /metrics HTTP endpoint,
	// e.g. ":9090".
	Address string

	// ServiceName is attached to the built-in consumer metrics and the
	// default collectors as a constant "service" label so metrics from
	// different services can be told apart. Metrics added through the
	// Create* methods do not carry it.
	ServiceName string

	// EnableDefaultCollectors controls registration of the Go runtime,
	// process and build-info collectors.
	EnableDefaultCollectors bool
}
