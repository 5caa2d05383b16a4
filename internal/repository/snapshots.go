package repository

import (
	"context"
	"encoding/json"

	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
)

// DefaultKey is the storage key the extension has always used.
const DefaultKey = "problems"

type problemSnapshots struct {
	kv  KVStore
	key string
}

// NewProblemRepository stores problems as a JSON array under key. Dates are
// written as ISO-8601 date-times.
func NewProblemRepository(kv KVStore, key string) ProblemRepository {
	if key == "" {
		key = DefaultKey
	}
	return &problemSnapshots{kv: kv, key: key}
}

func (r *problemSnapshots) Load(ctx context.Context) ([]models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")
	log.Debug("loading problems: key=%s", r.key)

	data, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		log.Error("failed to read problems: %v", err)
		return nil, errors.NewPersistenceError("read", err)
	}
	if !found || len(data) == 0 {
		log.Debug("no stored problems under key=%s", r.key)
		return []models.Problem{}, nil
	}

	var problems []models.Problem
	if err := json.Unmarshal(data, &problems); err != nil {
		log.Error("stored problems are not valid json: %v", err)
		return nil, errors.NewPersistenceError("decode", err)
	}
	if problems == nil {
		problems = []models.Problem{}
	}
	log.Debug("loaded %d problems", len(problems))
	return problems, nil
}

func (r *problemSnapshots) Save(ctx context.Context, problems []models.Problem) error {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")
	if problems == nil {
		problems = []models.Problem{}
	}

	data, err := json.Marshal(problems)
	if err != nil {
		log.Error("failed to encode problems: %v", err)
		return errors.NewPersistenceError("encode", err)
	}
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		log.Error("failed to write problems: %v", err)
		return errors.NewPersistenceError("write", err)
	}
	log.Debug("saved %d problems (%d bytes)", len(problems), len(data))
	return nil
}
