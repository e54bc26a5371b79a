// Package api is the request gateway for the journal service.
//
// # Overview
//
// The package provides:
//  1. A Gateway that wraps every outbound HTTP call: it attaches the current
//     access token, resolves authorization failures through the refresh
//     coordinator, replays the rejected call at most once, and normalizes
//     non-2xx responses into a single typed shape.
//  2. Endpoint methods for the full API surface: auth (Login, Register,
//     RenewSession, Logout, Me) and journal (entries, drafts, publish,
//     delete, search).
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrSessionExpired, ErrUnavailable, ErrNotFound,
// ErrCancelled. Validation failures carry per-field messages in
// (*Error).FieldErrors and are never retried.
//
// # Concurrency & Contexts
//
// The Gateway is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts; cancellation is reported
// as ErrCancelled, which is not a failure.
package api
