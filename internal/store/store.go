// Package store holds the authoritative in-memory problem collection. Every
// mutation is applied to memory first and then written through to the
// persistence writer, so readers always see the latest state even while the
// durable copy lags.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/reminder"
	"github.com/vytor/leettrack/internal/repository"
)

// Writer is the write-through target. persist.Writer implements it.
type Writer interface {
	Save(records []models.Problem)
	Flush(ctx context.Context) error
}

// IDSource mints record ids.
type IDSource interface {
	New() string
}

type Options struct {
	// Repo is read by Load. Optional.
	Repo repository.ProblemRepository
	// Writer receives a snapshot after every mutation. Optional.
	Writer Writer
	Now    func() time.Time
	IDs    IDSource
	Logger *logger.Logger
}

// MergeResult counts what BulkMerge did.
type MergeResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

type Store struct {
	repo   repository.ProblemRepository
	writer Writer
	now    func() time.Time
	ids    IDSource
	log    *logger.Logger

	mu      sync.RWMutex
	records []models.Problem
	gen     uint64

	// guarded by cacheMu, always taken after mu
	cacheMu     sync.Mutex
	cacheValid  bool
	cacheGen    uint64
	cacheDay    time.Time
	cacheResult []models.Reminder
}

func New(opts Options) *Store {
	s := &Store{
		repo:    opts.Repo,
		writer:  opts.Writer,
		now:     opts.Now,
		ids:     opts.IDs,
		log:     opts.Logger,
		records: []models.Problem{},
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ids == nil {
		s.ids = models.NewIDGenerator()
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	s.log = s.log.WithPrefix("store")
	return s
}

// Load replaces the collection with what the repository holds. Stored ids
// are kept; records without one get a fresh id.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	seen := make(map[string]bool, len(loaded))
	records := make([]models.Problem, 0, len(loaded))
	for _, p := range loaded {
		p = models.Normalize(p, now)
		if p.ID == "" || seen[p.ID] {
			p.ID = s.ids.New()
		}
		seen[p.ID] = true
		records = append(records, p)
	}

	s.mu.Lock()
	s.records = records
	s.gen++
	s.mu.Unlock()

	logger.FromContext(ctx).WithPrefix("store").Info("loaded %d problems", len(records))
	return nil
}

// Add assigns a new id to p, normalizes it and prepends it.
func (s *Store) Add(p models.Problem) models.Problem {
	p = models.Normalize(p, s.now())
	p.ID = s.ids.New()

	s.mu.Lock()
	records := make([]models.Problem, 0, len(s.records)+1)
	records = append(records, p)
	records = append(records, s.records...)
	s.commit(records)
	s.mu.Unlock()

	s.log.Debug("added problem id=%s title=%q", p.ID, p.Title)
	return p.Clone()
}

// Update merges patch into the record with id.
func (s *Store) Update(id string, patch models.ProblemPatch) (models.Problem, error) {
	return s.replace(id, func(p models.Problem) models.Problem {
		return patch.Apply(p)
	})
}

// MarkRedone restarts the review interval of id from today.
func (s *Store) MarkRedone(id string) (models.Problem, error) {
	return s.replace(id, func(p models.Problem) models.Problem {
		return reminder.MarkRedone(p, s.now())
	})
}

// SkipRedo takes id out of the review schedule.
func (s *Store) SkipRedo(id string) (models.Problem, error) {
	return s.replace(id, func(p models.Problem) models.Problem {
		return reminder.SkipRedo(p, s.now())
	})
}

func (s *Store) replace(id string, fn func(models.Problem) models.Problem) (models.Problem, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Problem{}, errors.NewNotFoundError("problem", id)
	}

	updated := models.Normalize(fn(s.records[idx]), now)
	updated.ID = id

	records := make([]models.Problem, len(s.records))
	copy(records, s.records)
	records[idx] = updated
	s.commit(records)

	s.log.Debug("updated problem id=%s", id)
	return updated.Clone(), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return errors.NewNotFoundError("problem", id)
	}

	records := make([]models.Problem, 0, len(s.records)-1)
	records = append(records, s.records[:idx]...)
	records = append(records, s.records[idx+1:]...)
	s.commit(records)

	s.log.Debug("deleted problem id=%s", id)
	return nil
}

// dedupKey is the url identity used by BulkMerge, or "" when the record has
// no usable url.
func dedupKey(p models.Problem) string {
	u := strings.TrimSpace(p.URL)
	if u == "" {
		u = models.DeriveURL(p.Title)
	}
	key := models.CanonicalURL(u)
	if models.IsPlaceholderURL(key) {
		return ""
	}
	return key
}

// BulkMerge folds incoming into the collection. A record whose url matches
// an existing one is merged into it and its timestamp refreshed; anything
// else is inserted. New records are prepended in incoming order.
func (s *Store) BulkMerge(incoming []models.Problem) MergeResult {
	var res MergeResult
	if len(incoming) == 0 {
		return res
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make([]models.Problem, len(s.records))
	copy(existing, s.records)
	ids := make(map[string]bool, len(existing))

	type ref struct {
		fresh bool
		idx   int
	}
	byURL := make(map[string]ref, len(existing))
	for i, p := range existing {
		ids[p.ID] = true
		if key := dedupKey(p); key != "" {
			if _, dup := byURL[key]; !dup {
				byURL[key] = ref{idx: i}
			}
		}
	}

	var fresh []models.Problem
	for _, in := range incoming {
		key := dedupKey(in)
		if r, ok := byURL[key]; ok && key != "" {
			target := &existing[r.idx]
			if r.fresh {
				target = &fresh[r.idx]
			}
			merged := models.MergeInto(*target, in)
			stamp := now
			merged.UpdatedAt = &stamp
			*target = models.Normalize(merged, now)
			if !r.fresh {
				res.Updated++
			}
			continue
		}

		p := models.Normalize(in, now)
		if p.ID == "" || ids[p.ID] {
			p.ID = s.ids.New()
		}
		ids[p.ID] = true
		if key != "" {
			byURL[key] = ref{fresh: true, idx: len(fresh)}
		}
		fresh = append(fresh, p)
		res.Inserted++
	}

	records := make([]models.Problem, 0, len(fresh)+len(existing))
	records = append(records, fresh...)
	records = append(records, existing...)
	s.commit(records)

	s.log.Info("merged %d problems: inserted=%d updated=%d", len(incoming), res.Inserted, res.Updated)
	return res
}

// AddOrMerge merges p into the record sharing its url identity, or inserts
// it when there is none. fresh, when set, adjusts p before an insert only.
// The lookup and the write happen under one lock, so concurrent callers with
// the same url end up with a single record. It reports whether p was inserted.
func (s *Store) AddOrMerge(p models.Problem, fresh func(models.Problem) models.Problem) (models.Problem, bool) {
	now := s.now()
	key := dedupKey(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" {
		for i, existing := range s.records {
			if dedupKey(existing) != key {
				continue
			}
			merged := models.MergeInto(existing, p)
			stamp := now
			merged.UpdatedAt = &stamp
			merged = models.Normalize(merged, now)
			merged.ID = existing.ID

			records := make([]models.Problem, len(s.records))
			copy(records, s.records)
			records[i] = merged
			s.commit(records)

			s.log.Debug("merged problem id=%s", merged.ID)
			return merged.Clone(), false
		}
	}

	if fresh != nil {
		p = fresh(p)
	}
	p = models.Normalize(p, now)
	p.ID = s.ids.New()

	records := make([]models.Problem, 0, len(s.records)+1)
	records = append(records, p)
	records = append(records, s.records...)
	s.commit(records)

	s.log.Debug("added problem id=%s title=%q", p.ID, p.Title)
	return p.Clone(), true
}

// Get returns a copy of the record with id.
func (s *Store) Get(id string) (models.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Problem{}, errors.NewNotFoundError("problem", id)
	}
	return s.records[idx].Clone(), nil
}

// FindByURL returns the record whose url identity matches u.
func (s *Store) FindByURL(u string) (models.Problem, bool) {
	key := dedupKey(models.Problem{URL: u})
	if key == "" {
		return models.Problem{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.records {
		if dedupKey(p) == key {
			return p.Clone(), true
		}
	}
	return models.Problem{}, false
}

// Query returns copies of the records pred accepts, in collection order.
func (s *Store) Query(pred func(models.Problem) bool) []models.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Problem{}
	for _, p := range s.records {
		if pred == nil || pred(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// All returns a copy of the whole collection, most recent first.
func (s *Store) All() []models.Problem {
	return s.Query(nil)
}

// Search filters by term over title, approach and notes and sorts by a
// dashboard column. An empty sortKey keeps collection order.
func (s *Store) Search(term, sortKey, dir string) []models.Problem {
	out := s.Query(func(p models.Problem) bool { return models.MatchesSearch(p, term) })
	models.SortProblems(out, sortKey, dir)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Reminders returns the problems due today. The result is cached until the
// next mutation or until the calendar day changes.
func (s *Store) Reminders() []models.Reminder {
	today := models.Midnight(s.now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if !s.cacheValid || s.cacheGen != s.gen || !s.cacheDay.Equal(today) {
		s.cacheResult = reminder.Calculate(s.records, today)
		s.cacheGen = s.gen
		s.cacheDay = today
		s.cacheValid = true
	}
	return append([]models.Reminder(nil), s.cacheResult...)
}

// RemindersAt computes reminders for an arbitrary day without caching.
func (s *Store) RemindersAt(today time.Time) []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reminder.Calculate(s.records, today)
}

// Flush waits for pending write-through and reports its outcome.
func (s *Store) Flush(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Flush(ctx)
}

func (s *Store) indexOf(id string) int {
	for i, p := range s.records {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// commit swaps in records and issues the write. Callers hold mu, so writes
// are issued in mutation order.
func (s *Store) commit(records []models.Problem) {
	s.records = records
	s.gen++
	if s.writer != nil {
		s.writer.Save(records)
	}
}
