// Package file stores each key as a JSON document in a directory, the
// on-disk counterpart of the extension-scoped browser store.
package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/repository"
)

type kvStore struct {
	dir string
	mu  sync.RWMutex
}

// NewKVStore creates dir if needed and returns a store rooted there.
func NewKVStore(dir string) (repository.KVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &kvStore{dir: dir}, nil
}

func (s *kvStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("file_store")
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("key not found: %s", key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to read key %s: %v", key, err)
		return nil, false, err
	}
	return data, true, nil
}

// Set writes to a temp file and renames it over the old one so a crash
// never leaves a half-written document behind.
func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("file_store")
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		log.Error("failed to create temp file: %v", err)
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		log.Error("failed to write temp file: %v", err)
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		log.Error("failed to replace key %s: %v", key, err)
		return err
	}
	log.Debug("wrote key %s (%d bytes)", key, len(value))
	return nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
