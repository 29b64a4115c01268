// Package cache provides response caching for chat models: a key-value
// store abstraction with pluggable backends, a write-back in-memory layer,
// and a model wrapper that short-circuits repeated generations.
package cache

import "context"

// Store translates between external storage and the cache's key-value
// namespace. Implementations are stateless — they perform I/O on each call
// without caching.
type Store interface {
	// List returns all available keys in the store.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries to storage, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries from storage. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// Entry is a key-value pair in the cache namespace. Keys are /-separated
// hierarchical paths and values are raw bytes.
type Entry struct {
	Key   string
	Value []byte
}
