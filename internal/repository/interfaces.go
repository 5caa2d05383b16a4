package repository

import (
	"context"

	"github.com/vytor/leettrack/internal/models"
)

// KVStore is the persistence adapter: a key/value save/load contract that
// every backend (sqlite, file, memory) satisfies interchangeably.
type KVStore interface {
	// Get returns the value stored under key. found is false when the key
	// has never been set or was deleted.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ProblemRepository loads and saves the whole problem collection as one
// snapshot under a fixed key.
type ProblemRepository interface {
	Load(ctx context.Context) ([]models.Problem, error)
	Save(ctx context.Context, problems []models.Problem) error
}
