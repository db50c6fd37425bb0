package logger

// Level represents the minimum severity of log entries that will be emitted.
type Level int

const (
	// Debug enables all log output, including per-record diagnostics.
	Debug Level = iota - 1

	// Info enables informational output and above. This is the default.
	Info

	// Warning enables warnings and errors only.
	Warning

	// Error enables error output only.
	Error
)

// Config defines the configuration for the logger.
type Config struct {
	// Level is the minimum severity to emit. Defaults to Info.
	Level Level

	// ServiceName is attached to every log entry as the "service" field so
	// entries from different services can be told apart in aggregated logs.
	ServiceName string

	// EnableTracing controls whether the *WithContext methods extract the
	// active trace and span IDs from the context and attach them to entries.
	EnableTracing bool

	// Development switches to a human-readable console encoding instead of
	// JSON. Intended for local runs and tests.
	Development bool
}
