// Package kvstorage defines a small key-value store for per-session state
// that lives outside the tracked issue files, such as the IDs printed by
// the last list.
package kvstorage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// KVStore defines the interface for key-value persistence in one directory.
type KVStore interface {
	// Set stores a value for the given key.
	// If opts.FailIfExists is true and the key already exists, returns ErrAlreadyExists.
	// Otherwise, overwrites the existing value.
	Set(ctx context.Context, key string, value []byte, opts SetOptions) error

	// Get retrieves the value for the given key and when it was last written.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, time.Time, error)

	// Delete removes a key and its value.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// List returns all keys.
	List(ctx context.Context) ([]string, error)
}

// SetOptions controls Set behavior.
type SetOptions struct {
	// FailIfExists causes Set to return ErrAlreadyExists if the key is already present.
	FailIfExists bool
}

// ValidateKey checks that a key is non-empty and names a single file.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("key %q: %w", key, ErrInvalidKey)
	}
	return nil
}
