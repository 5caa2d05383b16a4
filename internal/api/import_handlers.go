package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/logger"
)

const defaultMaxImportBytes = 10 << 20

func (s *Server) maxImportBytes() int64 {
	if s.MaxImportBytes > 0 {
		return s.MaxImportBytes
	}
	return defaultMaxImportBytes
}

// handleImport accepts either a raw CSV body or a multipart form with the
// table in the "file" field.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	limit := s.maxImportBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(limit); err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid multipart form: "+err.Error()))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("missing file field"))
			return
		}
		defer file.Close()
		log.Debug("importing upload %s (%d bytes)", header.Filename, header.Size)
		body = file
	}

	data, err := io.ReadAll(body)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("could not read upload: "+err.Error()))
		return
	}

	res, err := s.ProblemService.Import(r.Context(), bytes.NewReader(data))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := s.ProblemService.Export(r.Context(), &buf)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write export: %v", err)
	}
}
