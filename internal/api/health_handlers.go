package api

import (
	"net/http"
	"sort"

	"github.com/vytor/leettrack/internal/logger"
)

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady runs every readiness check. Returns 200 if all pass, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	names := make([]string, 0, len(s.ReadyChecks))
	for name := range s.ReadyChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	status := http.StatusOK
	for _, name := range names {
		if err := s.ReadyChecks[name](r.Context()); err != nil {
			log.Warn("readiness check failed - %s: %v", name, err)
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, r, status, map[string]any{
		"ready":  status == http.StatusOK,
		"checks": checks,
	})
}
