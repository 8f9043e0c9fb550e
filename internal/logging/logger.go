// Package logging carries the console's diagnostics: startup, storage and
// crypto failures that an operator or maintainer needs to see.
//
// It is not the audit trail. Who did what is recorded by package audit;
// these logs identify records by numeric id and never hold passwords,
// usernames or other decrypted fields.
package logging

import "context"

// Logger is what services, the authenticator and the console log through.
// args are alternating keys and values:
//
//	log.Warn(ctx, "skipping undecryptable account", "user_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every entry.
	With(args ...any) Logger
}
