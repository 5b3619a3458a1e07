// Package logging defines the structured-logging boundary used across the
// server. The concrete implementation wraps slog; swapping the backend only
// touches this package.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. The variadic args
// are alternating key/value pairs:
//
//	log.Info(ctx, "starting HTTP server", "address", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that attaches the given key/value pairs
	// to every record.
	With(args ...any) Logger
}
