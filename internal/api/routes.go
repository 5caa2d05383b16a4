package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/problems", s.handleListProblems)
		r.Post("/problems", s.handleCreateProblem)
		r.Get("/problems/{id}", s.handleGetProblem)
		r.Patch("/problems/{id}", s.handleUpdateProblem)
		r.Delete("/problems/{id}", s.handleDeleteProblem)
		r.Post("/problems/{id}/redone", s.handleMarkRedone)
		r.Post("/problems/{id}/skip", s.handleSkipRedo)

		r.Get("/reminders", s.handleReminders)

		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)

		r.Post("/extension/messages", s.handleExtensionMessage)
		r.Get("/extension/current", s.handleCurrentProblem)
	})
	return r
}
