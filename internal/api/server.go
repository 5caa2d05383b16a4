package api

import (
	"context"
	"time"

	"github.com/vytor/leettrack/internal/services"
)

// HealthCheck reports whether one dependency can serve traffic.
type HealthCheck func(ctx context.Context) error

type Server struct {
	ProblemService   services.ProblemService
	ExtensionService services.ExtensionService
	// Location is the calendar used for dates given as M/D/YYYY.
	Location *time.Location
	// ReadyChecks run on /readyz, keyed by a short name.
	ReadyChecks map[string]HealthCheck
	// MaxImportBytes caps the size of an uploaded CSV.
	MaxImportBytes int64
}

func (s *Server) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}
