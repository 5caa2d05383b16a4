package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vytor/leettrack/internal/extension"
	"github.com/vytor/leettrack/internal/jobs"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/store"
)

// AddResult is the reply to ADD_PROBLEM_TO_TRACKER.
type AddResult struct {
	Problem models.Problem `json:"problem"`
	Created bool           `json:"created"`
}

// ExtensionService handles messages from the browser extension
type ExtensionService interface {
	Handle(ctx context.Context, msg extension.Message) (extension.Response, error)
	Current() (models.DetectedProblem, bool)
	ApplyMetadata(ctx context.Context, problemURL string, meta models.DetectedProblem) error
}

type extensionService struct {
	store        *store.Store
	session      *extension.Session
	queue        jobs.Queue
	readyTimeout time.Duration
}

// NewExtensionService creates a new ExtensionService. queue may be nil, in
// which case partial detections are never enriched.
func NewExtensionService(st *store.Store, session *extension.Session, queue jobs.Queue, readyTimeout time.Duration) ExtensionService {
	return &extensionService{store: st, session: session, queue: queue, readyTimeout: readyTimeout}
}

func (s *extensionService) Handle(ctx context.Context, msg extension.Message) (extension.Response, error) {
	log := logger.FromContext(ctx).WithPrefix("extension").WithField("kind", msg.Kind())
	log.Debug("handling message")

	switch m := msg.(type) {
	case extension.ContentReady:
		s.session.MarkReady(m.TabID)
		return extension.OK(nil), nil

	case extension.ProblemDetected:
		s.session.Publish(m.TabID, &m.Problem)
		s.enrich(ctx, m.Problem)
		return extension.OK(nil), nil

	case extension.ProblemCleared:
		s.session.Publish(m.TabID, nil)
		if m.TabID != 0 {
			s.session.ResetReady(m.TabID)
		}
		return extension.OK(nil), nil

	case extension.AddProblemToTracker:
		res := s.add(ctx, m.Problem)
		return extension.OK(res), nil

	case extension.GetCurrentProblem:
		if m.TabID != 0 {
			if err := s.session.WaitReady(ctx, m.TabID, s.readyTimeout); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return extension.Response{}, ctxErr
				}
				log.Debug("tab %d not ready, answering with last known problem: %v", m.TabID, err)
			}
		}
		return s.currentResponse(), nil

	case extension.SidePanelReady:
		return s.currentResponse(), nil

	case extension.Ping:
		return extension.OK("pong"), nil
	}

	return extension.Response{}, stderrors.New("unhandled message kind " + string(msg.Kind()))
}

func (s *extensionService) currentResponse() extension.Response {
	if p, ok := s.Current(); ok {
		return extension.OK(p)
	}
	return extension.OK(nil)
}

func (s *extensionService) Current() (models.DetectedProblem, bool) {
	return s.session.Current()
}

// add saves a detected problem. An already tracked url is merged, anything
// else becomes a new record due for a medium-cadence redo.
func (s *extensionService) add(ctx context.Context, d models.DetectedProblem) AddResult {
	log := logger.FromContext(ctx).WithPrefix("extension")

	incoming := d.ToProblem()
	if incoming.URL == "" {
		incoming.URL = models.DeriveURL(incoming.Title)
	}
	stored, created := s.store.AddOrMerge(incoming, func(p models.Problem) models.Problem {
		p.RedoDifficulty = models.Medium
		return p
	})
	if !created {
		log.Info("updated tracked problem id=%s", stored.ID)
		return AddResult{Problem: stored}
	}

	log.Info("tracking new problem id=%s title=%q", stored.ID, stored.Title)
	s.enrich(ctx, d)
	return AddResult{Problem: stored, Created: true}
}

func (s *extensionService) enrich(ctx context.Context, d models.DetectedProblem) {
	if s.queue == nil || !d.NeedsMetadata() || d.URL == "" {
		return
	}
	if _, ok := models.SlugFromURL(d.URL); !ok {
		return
	}
	if err := s.queue.EnqueueEnrichment(d.URL); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue enrichment for %s: %v", d.URL, err)
	}
}

// ApplyMetadata fills in what the detector missed, both in the session and
// in the tracked record for problemURL if there is one.
func (s *extensionService) ApplyMetadata(ctx context.Context, problemURL string, meta models.DetectedProblem) error {
	log := logger.FromContext(ctx).WithPrefix("extension")

	if s.session.Enrich(problemURL, meta) {
		log.Debug("current problem enriched")
	}

	existing, ok := s.store.FindByURL(problemURL)
	if !ok {
		return nil
	}

	patch := models.Problem{URL: existing.URL, Description: meta.Description, Tags: meta.Tags}
	if existing.Title == "" || models.IsPlaceholderURL(models.DeriveURL(existing.Title)) {
		patch.Title = meta.Title
	}
	if d, valid := models.ParseDifficulty(meta.Difficulty); valid {
		patch.Difficulty = d
	}
	s.store.BulkMerge([]models.Problem{patch})
	log.Info("enriched tracked problem id=%s", existing.ID)
	return nil
}
