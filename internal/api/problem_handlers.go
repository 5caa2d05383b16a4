package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/leettrack/internal/csvcodec"
	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/services"
)

// problemRequest is the body of POST /api/problems. Dates arrive as text
// in any form the CSV importer accepts.
type problemRequest struct {
	Date            string            `json:"date"`
	Duration        int               `json:"duration"`
	Difficulty      models.Difficulty `json:"difficulty"`
	Title           string            `json:"problemTitle"`
	URL             string            `json:"problemUrl"`
	Redo            models.Difficulty `json:"redo"`
	Approach        string            `json:"approach"`
	Notes           string            `json:"notes"`
	TimeComplexity  string            `json:"timeComplexity"`
	SpaceComplexity string            `json:"spaceComplexity"`
	Description     string            `json:"description"`
	Tags            []string          `json:"tags"`
}

func (s *Server) toProblem(req problemRequest) (models.Problem, error) {
	p := models.Problem{
		DurationMinutes: req.Duration,
		Difficulty:      req.Difficulty,
		Title:           strings.TrimSpace(req.Title),
		URL:             strings.TrimSpace(req.URL),
		RedoDifficulty:  req.Redo,
		Approach:        req.Approach,
		Notes:           req.Notes,
		TimeComplexity:  req.TimeComplexity,
		SpaceComplexity: req.SpaceComplexity,
		Description:     req.Description,
		Tags:            req.Tags,
	}
	if req.Duration < 0 {
		return p, errors.NewValidationError("duration", "must not be negative")
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		return p, errors.NewValidationError("difficulty", "must be Easy, Medium or Hard")
	}
	if req.Redo != "" && !req.Redo.Valid() {
		return p, errors.NewValidationError("redo", "must be Easy, Medium or Hard")
	}
	if strings.TrimSpace(req.Date) != "" {
		d, ok := csvcodec.ParseDate(req.Date, s.location())
		if !ok {
			return p, errors.NewValidationError("date", "unreadable date "+req.Date)
		}
		p.SolvedDate = d
	}
	return p, nil
}

// patchRequest is the body of PATCH /api/problems/{id}. Absent fields are
// left unchanged.
type patchRequest struct {
	Date            *string            `json:"date"`
	Duration        *int               `json:"duration"`
	Difficulty      *models.Difficulty `json:"difficulty"`
	Title           *string            `json:"problemTitle"`
	URL             *string            `json:"problemUrl"`
	Redo            *models.Difficulty `json:"redo"`
	Approach        *string            `json:"approach"`
	Notes           *string            `json:"notes"`
	TimeComplexity  *string            `json:"timeComplexity"`
	SpaceComplexity *string            `json:"spaceComplexity"`
}

func (s *Server) toPatch(req patchRequest) (models.ProblemPatch, error) {
	patch := models.ProblemPatch{
		DurationMinutes: req.Duration,
		Difficulty:      req.Difficulty,
		Title:           req.Title,
		URL:             req.URL,
		RedoDifficulty:  req.Redo,
		Approach:        req.Approach,
		Notes:           req.Notes,
		TimeComplexity:  req.TimeComplexity,
		SpaceComplexity: req.SpaceComplexity,
	}
	if req.Duration != nil && *req.Duration < 0 {
		return patch, errors.NewValidationError("duration", "must not be negative")
	}
	if req.Difficulty != nil && !req.Difficulty.Valid() {
		return patch, errors.NewValidationError("difficulty", "must be Easy, Medium or Hard")
	}
	if req.Redo != nil && !req.Redo.Valid() {
		return patch, errors.NewValidationError("redo", "must be Easy, Medium or Hard")
	}
	if req.Date != nil {
		d, ok := csvcodec.ParseDate(*req.Date, s.location())
		if !ok {
			return patch, errors.NewValidationError("date", "unreadable date "+*req.Date)
		}
		patch.SolvedDate = &d
	}
	return patch, nil
}

func (s *Server) handleListProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	problems, err := s.ProblemService.List(r.Context(), services.ListParams{
		Search: q.Get("q"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, problems)
}

func (s *Server) handleCreateProblem(w http.ResponseWriter, r *http.Request) {
	var req problemRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	p, err := s.toProblem(req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	created, err := s.ProblemService.Create(r.Context(), p)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	p, err := s.ProblemService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleUpdateProblem(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	patch, err := s.toPatch(req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := s.ProblemService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteProblem(w http.ResponseWriter, r *http.Request) {
	if err := s.ProblemService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkRedone(w http.ResponseWriter, r *http.Request) {
	p, err := s.ProblemService.MarkRedone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleSkipRedo(w http.ResponseWriter, r *http.Request) {
	p, err := s.ProblemService.SkipRedo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	reminders := s.ProblemService.Reminders(r.Context())
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	writeJSON(w, r, http.StatusOK, reminders)
}
