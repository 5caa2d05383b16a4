package services

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vytor/leettrack/internal/csvcodec"
	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/store"
)

// ListParams filters and orders the problem list.
type ListParams struct {
	Search string
	Sort   string
	Dir    string
}

// ImportResult reports what an import did.
type ImportResult struct {
	Inserted int                `json:"inserted"`
	Updated  int                `json:"updated"`
	Warnings []csvcodec.Warning `json:"warnings"`
}

// ProblemService handles problem tracking business logic
type ProblemService interface {
	List(ctx context.Context, params ListParams) ([]models.Problem, error)
	Get(ctx context.Context, id string) (models.Problem, error)
	Create(ctx context.Context, p models.Problem) (models.Problem, error)
	Update(ctx context.Context, id string, patch models.ProblemPatch) (models.Problem, error)
	Delete(ctx context.Context, id string) error
	MarkRedone(ctx context.Context, id string) (models.Problem, error)
	SkipRedo(ctx context.Context, id string) (models.Problem, error)
	Reminders(ctx context.Context) []models.Reminder
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
	Export(ctx context.Context, w io.Writer) (filename string, err error)
	Bootstrap(ctx context.Context, seedPath string) error
}

type problemService struct {
	store    *store.Store
	location *time.Location
	now      func() time.Time
}

// NewProblemService creates a new ProblemService over st. Dates are read
// and written in loc.
func NewProblemService(st *store.Store, loc *time.Location) ProblemService {
	if loc == nil {
		loc = time.Local
	}
	return &problemService{store: st, location: loc, now: time.Now}
}

func (s *problemService) List(ctx context.Context, params ListParams) ([]models.Problem, error) {
	log := logger.FromContext(ctx)
	if params.Sort != "" && !models.ValidSortKey(params.Sort) {
		return nil, errors.NewValidationError("sort", "unknown column "+params.Sort)
	}
	if params.Dir != "" && !strings.EqualFold(params.Dir, models.SortAsc) && !strings.EqualFold(params.Dir, models.SortDesc) {
		return nil, errors.NewValidationError("dir", "must be asc or desc")
	}

	out := s.store.Search(params.Search, params.Sort, params.Dir)
	log.Debug("listed %d problems: search=%q sort=%s dir=%s", len(out), params.Search, params.Sort, params.Dir)
	return out, nil
}

func (s *problemService) Get(ctx context.Context, id string) (models.Problem, error) {
	return s.store.Get(id)
}

func (s *problemService) Create(ctx context.Context, p models.Problem) (models.Problem, error) {
	log := logger.FromContext(ctx)
	if strings.TrimSpace(p.Title) == "" {
		return models.Problem{}, errors.NewValidationError("problemTitle", "cannot be empty")
	}
	created := s.store.Add(p)
	log.Info("created problem id=%s title=%q", created.ID, created.Title)
	return created, nil
}

func (s *problemService) Update(ctx context.Context, id string, patch models.ProblemPatch) (models.Problem, error) {
	log := logger.FromContext(ctx)
	if patch.Empty() {
		return models.Problem{}, errors.NewBadRequestError("no fields to update")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Problem{}, errors.NewValidationError("problemTitle", "cannot be empty")
	}

	updated, err := s.store.Update(id, patch)
	if err != nil {
		log.Debug("update failed: id=%s err=%v", id, err)
		return models.Problem{}, err
	}
	log.Info("updated problem id=%s", id)
	return updated, nil
}

func (s *problemService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("deleted problem id=%s", id)
	return nil
}

func (s *problemService) MarkRedone(ctx context.Context, id string) (models.Problem, error) {
	p, err := s.store.MarkRedone(id)
	if err != nil {
		return models.Problem{}, err
	}
	logger.FromContext(ctx).Info("problem redone: id=%s", id)
	return p, nil
}

func (s *problemService) SkipRedo(ctx context.Context, id string) (models.Problem, error) {
	p, err := s.store.SkipRedo(id)
	if err != nil {
		return models.Problem{}, err
	}
	logger.FromContext(ctx).Info("problem needs no redo: id=%s", id)
	return p, nil
}

func (s *problemService) Reminders(ctx context.Context) []models.Reminder {
	return s.store.Reminders()
}

func (s *problemService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	log := logger.FromContext(ctx)

	dec := csvcodec.NewDecoder()
	dec.Location = s.location
	dec.Now = s.now
	res, err := dec.Decode(ctx, r)
	if err != nil {
		return nil, err
	}

	merged := s.store.BulkMerge(res.Records)
	log.Info("imported csv: inserted=%d updated=%d warnings=%d", merged.Inserted, merged.Updated, len(res.Warnings))

	warnings := res.Warnings
	if warnings == nil {
		warnings = []csvcodec.Warning{}
	}
	return &ImportResult{Inserted: merged.Inserted, Updated: merged.Updated, Warnings: warnings}, nil
}

func (s *problemService) Export(ctx context.Context, w io.Writer) (string, error) {
	records := s.store.All()
	if err := csvcodec.Encode(w, records, s.location); err != nil {
		logger.FromContext(ctx).Error("failed to encode csv: %v", err)
		return "", errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("exported %d problems", len(records))
	return csvcodec.Filename(s.now().In(s.location)), nil
}

// Bootstrap loads the persisted collection and, if it is empty and a seed
// file is configured, imports the seed.
func (s *problemService) Bootstrap(ctx context.Context, seedPath string) error {
	log := logger.FromContext(ctx)
	if err := s.store.Load(ctx); err != nil {
		log.Error("failed to load problems: %v", err)
		return err
	}
	if s.store.Len() > 0 || seedPath == "" {
		return nil
	}

	f, err := os.Open(seedPath)
	if err != nil {
		log.Error("failed to open seed csv: %v", err)
		return errors.NewBadRequestError("cannot open seed csv " + seedPath + ": " + err.Error())
	}
	defer f.Close()

	res, err := s.Import(ctx, f)
	if err != nil {
		return err
	}
	log.Info("seeded %d problems from %s", res.Inserted, seedPath)
	return nil
}
