// Package persist serializes write-through of the problem collection to its
// backing store. Writes are applied in the order they were issued, so a slow
// early write can never land on top of a later one.
package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/repository"
	"github.com/vytor/leettrack/internal/worker"
)

type snapshot struct {
	seq     uint64
	records []models.Problem
}

// Writer issues snapshot saves through a single-worker pool. Snapshots that
// arrive while a write is running replace each other, so only the newest one
// is written next and Save never waits on the backing store.
type Writer struct {
	repo repository.ProblemRepository
	pool *worker.Pool
	log  *logger.Logger

	mu       sync.Mutex
	pending  *snapshot
	draining bool
	closed   bool
	issued   uint64
	settled  uint64
	lastErr  error
	changed  chan struct{}
	onError  func(error)
}

// NewWriter starts the writer's worker. At most one drain job is queued at a
// time, so queueSize only sizes the pool.
func NewWriter(repo repository.ProblemRepository, queueSize int) *Writer {
	w := &Writer{
		repo:    repo,
		pool:    worker.NewPool(1, queueSize).Named("persist"),
		log:     logger.Default().WithPrefix("persist"),
		changed: make(chan struct{}),
	}
	w.onError = func(err error) { w.log.Error("write-through failed: %v", err) }
	w.pool.Start(context.Background())
	return w
}

// OnError replaces the handler called with every failed write.
func (w *Writer) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Save issues a write of records and returns without waiting for it.
// The slice is copied, so the caller may keep mutating its own.
func (w *Writer) Save(records []models.Problem) {
	cp := make([]models.Problem, len(records))
	for i, p := range records {
		cp[i] = p.Clone()
	}

	w.mu.Lock()
	w.issued++
	snap := &snapshot{seq: w.issued, records: cp}
	if w.closed {
		w.mu.Unlock()
		w.settle(snap.seq, errors.NewPersistenceError("write", worker.ErrPoolClosed))
		return
	}
	w.pending = snap
	if w.draining {
		w.mu.Unlock()
		return
	}
	w.draining = true
	w.mu.Unlock()

	// The queue is empty whenever draining was false, so this cannot block.
	if err := w.pool.Submit(&drainJob{w: w}); err != nil {
		w.abandon(errors.NewPersistenceError("write", err))
	}
}

// Flush blocks until every issued write has settled and returns the error
// of the most recent write that actually ran, or nil if it succeeded.
func (w *Writer) Flush(ctx context.Context) error {
	for {
		w.mu.Lock()
		if w.settled >= w.issued {
			err := w.lastErr
			w.mu.Unlock()
			return err
		}
		ch := w.changed
		w.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes pending writes and stops the worker. A snapshot still
// pending once the worker is gone settles with an error.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	err := w.Flush(ctx)
	w.pool.Stop()
	w.abandon(errors.NewPersistenceError("write", worker.ErrPoolClosed))
	return err
}

// next hands the drain job the newest pending snapshot, or ends the drain.
func (w *Writer) next() *snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := w.pending
	w.pending = nil
	if snap == nil {
		w.draining = false
	}
	return snap
}

// abandon settles a pending snapshot that will never be written.
func (w *Writer) abandon(err error) {
	w.mu.Lock()
	snap := w.pending
	w.pending = nil
	w.draining = false
	w.mu.Unlock()

	if snap != nil {
		w.settle(snap.seq, err)
	}
}

// settle records the outcome of seq. Every earlier seq was either written
// before it or superseded by it, so settled only moves forward.
func (w *Writer) settle(seq uint64, err error) {
	w.mu.Lock()
	if seq > w.settled {
		w.settled = seq
		w.lastErr = err
	}
	onError := w.onError
	close(w.changed)
	w.changed = make(chan struct{})
	w.mu.Unlock()

	if err != nil && onError != nil {
		onError(err)
	}
}

func (w *Writer) write(ctx context.Context, snap *snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewPersistenceError("write", fmt.Errorf("panic: %v", r))
		}
	}()
	err = w.repo.Save(ctx, snap.records)
	if err != nil && !errors.IsPersistence(err) {
		err = errors.NewPersistenceError("write", err)
	}
	return err
}

type drainJob struct {
	w *Writer
}

func (j *drainJob) Name() string { return "save_snapshot" }

func (j *drainJob) Run(ctx context.Context) error {
	var last error
	for {
		// A stopped pool leaves the pending snapshot to Close.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		snap := j.w.next()
		if snap == nil {
			return last
		}
		logger.FromContext(ctx).WithField("seq", snap.seq).Debug("writing snapshot of %d problems", len(snap.records))
		err := j.w.write(ctx, snap)
		j.w.settle(snap.seq, err)
		last = err
	}
}
