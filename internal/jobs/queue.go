package jobs

// Queue provides an abstraction for enqueueing background jobs
type Queue interface {
	EnqueueEnrichment(problemURL string) error
}
