// Package state persists the client's durable session data (credential and
// identity) as a small key/value table in a local sqlite database, so a
// login survives process restarts.
package state

import "context"

// Repository is the durable key/value store behind the session.
// Get returns (nil, nil) for a missing key. SetMany writes all pairs
// atomically.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
