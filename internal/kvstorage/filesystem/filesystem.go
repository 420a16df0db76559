// Package filesystem implements kvstorage.KVStore using the local filesystem.
// Each key is stored as a .txt file in a single directory, normally
// .gitissues/.tmp/.
package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"git-issue/internal/kvstorage"
)

const keySuffix = ".txt"

// Store implements kvstorage.KVStore with one file per key.
type Store struct {
	dir string
}

// New creates a new filesystem KV store rooted at dir. The directory is
// created on the first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Set stores a value for the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte, opts kvstorage.SetOptions) error {
	if err := kvstorage.ValidateKey(key); err != nil {
		return err
	}
	path := s.keyPath(key)
	if opts.FailIfExists {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("key %q: %w", key, kvstorage.ErrAlreadyExists)
		}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(value))
}

// Get retrieves the value for the given key and its modification time.
func (s *Store) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	if err := kvstorage.ValidateKey(key); err != nil {
		return nil, time.Time{}, err
	}
	path := s.keyPath(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, fmt.Errorf("key %q: %w", key, kvstorage.ErrKeyNotFound)
		}
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, info.ModTime(), nil
}

// Delete removes a key and its value.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := kvstorage.ValidateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.keyPath(key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("key %q: %w", key, kvstorage.ErrKeyNotFound)
		}
		return err
	}
	return nil
}

// List returns all keys in the directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, keySuffix) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, keySuffix))
	}
	return keys, nil
}

func (s *Store) keyPath(key string) string {
	return filepath.Join(s.dir, key+keySuffix)
}
