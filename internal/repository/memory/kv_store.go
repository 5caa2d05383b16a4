// Package memory holds a process-local KVStore. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/vytor/leettrack/internal/repository"
)

type kvStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKVStore() repository.KVStore {
	return &kvStore{data: map[string][]byte{}}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
