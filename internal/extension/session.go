package extension

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/leettrack/internal/models"
)

// ErrNotReady is returned when a tab did not announce readiness in time.
var ErrNotReady = errors.New("content script did not become ready")

// Update is delivered to subscribers whenever the current problem changes.
// Problem is nil when it was cleared.
type Update struct {
	TabID   int
	Problem *models.DetectedProblem
}

// Session holds the problem currently open in the browser. All changes go
// through Publish; readers either ask for Current or Subscribe.
type Session struct {
	mu      sync.Mutex
	current *models.DetectedProblem
	tabID   int
	subs    map[int]chan Update
	nextSub int
	ready   map[int]chan struct{}
}

func NewSession() *Session {
	return &Session{
		subs:  map[int]chan Update{},
		ready: map[int]chan struct{}{},
	}
}

// Publish replaces the current problem and notifies subscribers. A nil
// problem clears it, but only if tabID owns it (or tabID is zero).
func (s *Session) Publish(tabID int, p *models.DetectedProblem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil && tabID != 0 && s.tabID != 0 && s.tabID != tabID {
		return
	}
	if p != nil {
		c := *p
		c.Tags = append([]string(nil), p.Tags...)
		p = &c
	}
	s.current = p
	s.tabID = tabID
	s.broadcast(Update{TabID: tabID, Problem: p})
}

// Enrich merges metadata into the current problem when it is the one at
// problemURL. It reports whether the current problem changed.
func (s *Session) Enrich(problemURL string, meta models.DetectedProblem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || models.CanonicalURL(s.current.URL) != models.CanonicalURL(problemURL) {
		return false
	}
	c := *s.current
	if meta.Title != "" {
		c.Title = meta.Title
	}
	if meta.Difficulty != "" {
		c.Difficulty = meta.Difficulty
	}
	if meta.ProblemNumber != "" {
		c.ProblemNumber = meta.ProblemNumber
	}
	if meta.Description != "" {
		c.Description = meta.Description
	}
	if len(meta.Tags) > 0 {
		c.Tags = append([]string(nil), meta.Tags...)
	}
	s.current = &c
	s.broadcast(Update{TabID: s.tabID, Problem: &c})
	return true
}

// Current returns a copy of the current problem.
func (s *Session) Current() (models.DetectedProblem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.DetectedProblem{}, false
	}
	c := *s.current
	c.Tags = append([]string(nil), s.current.Tags...)
	return c, true
}

// Subscribe returns a channel of updates and a func that cancels the
// subscription. A slow subscriber only ever misses stale updates: when its
// buffer is full the oldest update is dropped.
func (s *Session) Subscribe(buffer int) (<-chan Update, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Update, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// broadcast must be called with mu held.
func (s *Session) broadcast(u Update) {
	for _, ch := range s.subs {
		select {
		case ch <- u:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- u:
		default:
		}
	}
}

func (s *Session) readyChan(tabID int) chan struct{} {
	ch, ok := s.ready[tabID]
	if !ok {
		ch = make(chan struct{})
		s.ready[tabID] = ch
	}
	return ch
}

// MarkReady records that the page script in tabID can answer queries.
func (s *Session) MarkReady(tabID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := s.readyChan(tabID)
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// ResetReady forgets readiness of tabID, e.g. after it navigated away.
func (s *Session) ResetReady(tabID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ready, tabID)
}

// WaitReady blocks until tabID is ready, ctx ends or timeout passes.
func (s *Session) WaitReady(ctx context.Context, tabID int, timeout time.Duration) error {
	s.mu.Lock()
	ch := s.readyChan(tabID)
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	default:
	}
	if timeout <= 0 {
		return ErrNotReady
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return nil
	case <-timer.C:
		return ErrNotReady
	case <-ctx.Done():
		return ctx.Err()
	}
}
