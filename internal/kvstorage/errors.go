package kvstorage

import "errors"

var (
	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when Set is called with FailIfExists
	// and the key already exists.
	ErrAlreadyExists = errors.New("key already exists")

	// ErrInvalidKey is returned for keys that are not plain file names.
	ErrInvalidKey = errors.New("invalid key")

	// ErrCacheEmpty is returned when no usable list cache exists.
	ErrCacheEmpty = errors.New("cached ID list is empty; run 'git issue list' first")

	// ErrCacheStale is returned when the list cache is older than its max age.
	ErrCacheStale = errors.New("cached ID list is stale; run 'git issue list' first")
)
