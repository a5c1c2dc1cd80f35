package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"a11yassessor/internal/apperrors"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// writeMappedError translates the error taxonomy to status codes: bad input
// 400, missing records 404, scan engine trouble 502, reference-data or
// storage faults a generic 500. The caller never sees internal detail for
// the 500 class.
func (s *Server) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, apperrors.ErrUpstream):
		s.logger.Warn("scan engine failure",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "Cannot evaluate the given page")
	default:
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Server Error")
	}
}
