// Package logger defines the structured logging contract used across the transgate service.
// Implementations live in internal/infrastructure/monitoring.
package logger

import "context"

// Fields is a set of structured key/value pairs attached to a log entry
type Fields map[string]interface{}

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields ...Fields)

	// Info logs an informational message
	Info(ctx context.Context, msg string, fields ...Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields ...Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields ...Fields)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields creates a new logger with additional fields
	WithFields(fields Fields) Logger

	// ForContext returns a request-scoped logger if one was stored in ctx
	ForContext(ctx context.Context) Logger
}

//Personal.AI order the ending
