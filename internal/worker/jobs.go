package worker

import (
	"context"
	"fmt"

	"github.com/vytor/leettrack/internal/leetcode"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
)

// EnrichProblemJob looks up the title, difficulty, description and tags of
// a problem the page detector only partially captured.
type EnrichProblemJob struct {
	Client   leetcode.ClientInterface
	Enricher ProblemEnricher
	URL      string
}

func (j *EnrichProblemJob) Name() string { return "enrich_problem" }

func (j *EnrichProblemJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("url", j.URL)

	slug, ok := models.SlugFromURL(j.URL)
	if !ok {
		log.Warn("cannot enrich problem without a slug")
		return nil
	}

	q, err := j.Client.FetchQuestion(ctx, slug)
	if err != nil {
		// best effort: local state is left as it was
		return fmt.Errorf("fetch question %s: %w", slug, err)
	}

	meta := q.ToDetected()
	meta.URL = j.URL
	if err := j.Enricher.ApplyMetadata(ctx, j.URL, meta); err != nil {
		return fmt.Errorf("apply metadata: %w", err)
	}
	log.Info("enriched problem %q", meta.Title)
	return nil
}
