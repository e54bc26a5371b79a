// Package metadata is a small durable key-value store backed by the local
// SQLite database. The session layer keeps the refresh credential here so a
// login survives process restarts; the CLI also caches the account name for
// its prompt.
package metadata

import "context"

// Repository is the key-value contract. Get returns an empty string for a
// missing key; absence is a valid state, not an error.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
