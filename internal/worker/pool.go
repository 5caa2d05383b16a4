package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/leettrack/internal/logger"
)

// ErrPoolClosed is returned by Submit once Stop has been called.
var ErrPoolClosed = errors.New("worker pool is stopped")

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	jobs     chan Job
	done     chan struct{}
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
	wg       sync.WaitGroup
	workers  int
	queue    int
	cancel   context.CancelFunc
	log      *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		done:    make(chan struct{}),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

// Named replaces the log prefix so several pools can be told apart.
func (p *Pool) Named(name string) *Pool {
	p.log = p.log.WithPrefix(name)
	return p
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job := <-p.jobs:
					if job == nil {
						workerLog.Debug("worker shutting down (queue closed)")
						return
					}
					p.run(ctx, workerLog, job)
				}
			}
		}(i + 1)
	}
}

func (p *Pool) run(ctx context.Context, workerLog *logger.Logger, job Job) {
	jobLog := workerLog.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			jobLog.Error("job panicked after %v: %v", time.Since(start), r)
		}
	}()

	jobCtx := logger.NewContext(ctx, jobLog)
	if err := job.Run(jobCtx); err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
	} else {
		jobLog.Debug("job completed in %v", time.Since(start))
	}
}

// Stop cancels running jobs, closes the queue and waits for the workers.
// Jobs still queued are dropped. Safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.log.Info("stopping worker pool")
		close(p.done)
		if p.cancel != nil {
			p.cancel()
		}
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
		p.wg.Wait()
		p.log.Info("worker pool stopped")
	})
}

// Submit queues job, blocking while the queue is full. It fails with
// ErrPoolClosed after Stop.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.log.Debug("submitting job: %s", job.Name())
	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrPoolClosed
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
