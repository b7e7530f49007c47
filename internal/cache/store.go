// Package cache provides the expiring key-value store behind sessions and
// password-reset tokens. Production uses Redis; tests use the in-memory
// implementation.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or already expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a minimal expiring key-value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes key with the given TTL, replacing any prior value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key and reports whether a live entry was removed. The
	// bool lets callers claim a key at most once under concurrency.
	Delete(ctx context.Context, key string) (bool, error)
}
