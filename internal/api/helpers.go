package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/logger"
)

const maxJSONBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads a single JSON document from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes))
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid json body: " + err.Error())
	}
	return nil
}
