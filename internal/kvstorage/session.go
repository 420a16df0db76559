package kvstorage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git-issue/internal/issuestorage"
)

// ListCacheKey is the key under which the last listed IDs are stored.
const ListCacheKey = "cache"

// DefaultMaxAge is how long a list cache stays usable.
const DefaultMaxAge = 5 * time.Minute

// ListCache remembers the IDs printed by the last list so that a following
// bulk command can address them with "*".
type ListCache struct {
	store  KVStore
	maxAge time.Duration
	now    func() time.Time
}

// NewListCache creates a ListCache backed by store.
func NewListCache(store KVStore, maxAge time.Duration) *ListCache {
	return &ListCache{store: store, maxAge: maxAge, now: time.Now}
}

// Save replaces the cached IDs.
func (c *ListCache) Save(ctx context.Context, ids []issuestorage.ID) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return c.store.Set(ctx, ListCacheKey, []byte(strings.Join(parts, ",")), SetOptions{})
}

// Load returns the cached IDs. It fails with ErrCacheEmpty when there is no
// cache or it holds no IDs, and with ErrCacheStale when it is too old.
func (c *ListCache) Load(ctx context.Context) ([]issuestorage.ID, error) {
	data, written, err := c.store.Get(ctx, ListCacheKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrCacheEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading list cache: %w", err)
	}
	if c.maxAge > 0 && c.now().Sub(written) > c.maxAge {
		return nil, ErrCacheStale
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, ErrCacheEmpty
	}
	var ids []issuestorage.ID
	for _, part := range strings.Split(content, ",") {
		id, err := issuestorage.ParseID(part)
		if err != nil {
			return nil, ErrCacheEmpty
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Clear removes the cache. A missing cache is not an error.
func (c *ListCache) Clear(ctx context.Context) error {
	err := c.store.Delete(ctx, ListCacheKey)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	return nil
}
