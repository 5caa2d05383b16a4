package jobs

import (
	"github.com/vytor/leettrack/internal/leetcode"
	"github.com/vytor/leettrack/internal/worker"
)

// WorkerQueue implements Queue using a worker pool
type WorkerQueue struct {
	enrichPool *worker.Pool
	client     leetcode.ClientInterface
	enricher   worker.ProblemEnricher
}

// NewWorkerQueue creates a new WorkerQueue. The enricher may be attached
// later with SetEnricher when it depends on the queue itself.
func NewWorkerQueue(enrichPool *worker.Pool, client leetcode.ClientInterface) *WorkerQueue {
	return &WorkerQueue{
		enrichPool: enrichPool,
		client:     client,
	}
}

func (q *WorkerQueue) SetEnricher(e worker.ProblemEnricher) {
	q.enricher = e
}

func (q *WorkerQueue) EnqueueEnrichment(problemURL string) error {
	return q.enrichPool.Submit(&worker.EnrichProblemJob{
		Client:   q.client,
		Enricher: q.enricher,
		URL:      problemURL,
	})
}
