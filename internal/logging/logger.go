// Package logging is the structured logger shared by the server packages.
// SlogLogger is the only implementation; tests use NewDiscardLogger.
package logging

import "context"

// Logger takes the request context first so handlers can attach trace and
// request scoped values. args are alternating keys and values:
//
//	log.Info(ctx, "user registered", "user_id", id)
//
// Passwords and tokens must never be passed as args.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
