package api

import (
	"io"
	"net/http"

	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/extension"
	"github.com/vytor/leettrack/internal/logger"
)

// handleExtensionMessage is the HTTP bridge for extension messages. Every
// reply, failures included, uses the {success, data, error} envelope.
func (s *Server) handleExtensionMessage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBytes))
	if err != nil {
		s.extensionError(w, r, errors.NewBadRequestError("could not read message"))
		return
	}
	msg, err := extension.Decode(data)
	if err != nil {
		s.extensionError(w, r, err)
		return
	}
	resp, err := s.ExtensionService.Handle(r.Context(), msg)
	if err != nil {
		s.extensionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) extensionError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.As(err)
	if appErr.Status >= 500 {
		logger.FromContext(r.Context()).Error("extension message failed: %v", appErr)
	} else {
		logger.FromContext(r.Context()).Warn("extension message rejected: %v", appErr)
	}
	writeJSON(w, r, appErr.Status, extension.Response{Success: false, Error: appErr.Message})
}

func (s *Server) handleCurrentProblem(w http.ResponseWriter, r *http.Request) {
	p, ok := s.ExtensionService.Current()
	if !ok {
		writeJSON(w, r, http.StatusOK, extension.OK(nil))
		return
	}
	writeJSON(w, r, http.StatusOK, extension.OK(p))
}
