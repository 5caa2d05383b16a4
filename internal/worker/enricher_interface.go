package worker

import (
	"context"

	"github.com/vytor/leettrack/internal/models"
)

// ProblemEnricher merges fetched metadata into the tracked record for a url.
// Declared here so the worker package does not import services.
type ProblemEnricher interface {
	ApplyMetadata(ctx context.Context, problemURL string, meta models.DetectedProblem) error
}
