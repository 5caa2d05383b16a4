package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const kvTable = "kv_store"

type kvRepository struct {
	db *sql.DB
}

// NewKVRepository creates a KVStore backed by the kv_store table.
func NewKVRepository(db *sql.DB) repository.KVStore {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("getting key: %s", key)

	query, args, err := sqlBuilder.Select("value").From(kvTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key not found: %s", key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to get key %s: %v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("setting key: %s (%d bytes)", key, len(value))

	if value == nil {
		value = []byte{}
	}
	query, args, err := sqlBuilder.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, revision = " + kvTable + ".revision + 1, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to set key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("deleting key: %s", key)

	query, args, err := sqlBuilder.Delete(kvTable).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

// Revision reports how many times key has been written. It is zero for a
// missing key.
func Revision(ctx context.Context, db *sql.DB, key string) (int64, error) {
	query, args, err := sqlBuilder.Select("revision").From(kvTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var rev int64
	err = db.QueryRowContext(ctx, query, args...).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return rev, err
}
