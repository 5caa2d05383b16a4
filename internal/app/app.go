// Package app assembles the tracker from configuration: the storage
// backend, the persisted store, services, and the enrichment workers.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vytor/leettrack/internal/config"
	"github.com/vytor/leettrack/internal/db"
	"github.com/vytor/leettrack/internal/extension"
	"github.com/vytor/leettrack/internal/jobs"
	"github.com/vytor/leettrack/internal/leetcode"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/persist"
	"github.com/vytor/leettrack/internal/repository"
	"github.com/vytor/leettrack/internal/repository/file"
	"github.com/vytor/leettrack/internal/repository/memory"
	"github.com/vytor/leettrack/internal/repository/sqlite"
	"github.com/vytor/leettrack/internal/services"
	"github.com/vytor/leettrack/internal/store"
	"github.com/vytor/leettrack/internal/worker"
)

// Options tunes what New starts.
type Options struct {
	// Enrich starts the metadata workers. Without it partial detections
	// stay partial.
	Enrich bool
	// Client overrides the metadata client built from the configuration.
	Client leetcode.ClientInterface
	// Now overrides the clock.
	Now func() time.Time
}

type App struct {
	Config    config.Config
	Store     *store.Store
	Writer    *persist.Writer
	Session   *extension.Session
	Problems  services.ProblemService
	Extension services.ExtensionService
	// ReadyChecks report whether storage can serve traffic.
	ReadyChecks map[string]func(ctx context.Context) error

	enrichPool *worker.Pool
	closeKV    func() error
	log        *logger.Logger
}

// New opens storage, loads the collection (seeding it when empty) and
// wires the services. Close releases everything it started.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	log := logger.Default().WithPrefix("app")

	kv, closeKV, checks, err := openKV(cfg)
	if err != nil {
		log.Error("failed to open %s storage: %v", cfg.StorageBackend, err)
		return nil, err
	}

	a := &App{
		Config:      cfg,
		Session:     extension.NewSession(),
		ReadyChecks: checks,
		closeKV:     closeKV,
		log:         log,
	}

	repo := repository.NewProblemRepository(kv, cfg.StorageKey)
	a.Writer = persist.NewWriter(repo, cfg.PersistQueueSize)

	loc := cfg.Location()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	a.Store = store.New(store.Options{
		Repo:   repo,
		Writer: a.Writer,
		Now:    func() time.Time { return now().In(loc) },
		Logger: logger.Default().WithPrefix("store"),
	})

	var queue jobs.Queue
	var wq *jobs.WorkerQueue
	if opts.Enrich {
		client := opts.Client
		if client == nil {
			client = leetcode.New(cfg.LeetCodeGraphQLURL, cfg.LeetCodeTimeout())
		}
		a.enrichPool = worker.NewPool(cfg.EnrichWorkerCount, cfg.EnrichQueueSize).Named("enrich")
		wq = jobs.NewWorkerQueue(a.enrichPool, client)
		queue = wq
	}

	a.Problems = services.NewProblemService(a.Store, loc)
	a.Extension = services.NewExtensionService(a.Store, a.Session, queue, cfg.ReadyTimeout())
	if wq != nil {
		wq.SetEnricher(a.Extension)
	}

	if err := a.Problems.Bootstrap(ctx, cfg.SeedCSVPath); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	if a.enrichPool != nil {
		a.enrichPool.Start(context.Background())
	}
	log.Info("tracker ready: backend=%s records=%d", cfg.StorageBackend, a.Store.Len())
	return a, nil
}

// openKV builds the configured key-value backend along with its closer and
// readiness checks.
func openKV(cfg config.Config) (repository.KVStore, func() error, map[string]func(context.Context) error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		checks := map[string]func(context.Context) error{
			"database": func(ctx context.Context) error { return database.PingContext(ctx) },
		}
		return sqlite.NewKVRepository(database.DB), database.Close, checks, nil

	case config.BackendFile:
		kv, err := file.NewKVStore(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		checks := map[string]func(context.Context) error{
			"data_dir": func(context.Context) error {
				_, err := os.Stat(cfg.DataDir)
				return err
			},
		}
		return kv, noop, checks, nil

	case config.BackendMemory:
		return memory.NewKVStore(), noop, map[string]func(context.Context) error{}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// Close stops the enrichment workers, waits for pending writes and closes
// storage. The first failure is returned.
func (a *App) Close(ctx context.Context) error {
	if a.enrichPool != nil {
		a.log.Debug("stopping enrichment pool")
		a.enrichPool.Stop()
	}

	var firstErr error
	if a.Writer != nil {
		a.log.Debug("flushing pending writes")
		if err := a.Writer.Close(ctx); err != nil {
			a.log.Error("failed to flush pending writes: %v", err)
			firstErr = err
		}
	}
	if a.closeKV != nil {
		if err := a.closeKV(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
