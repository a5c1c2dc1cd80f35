package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"a11yassessor/internal/apperrors"
)

type runAutomatedRequest struct {
	SiteID int64  `json:"site_id"`
	URL    string `json:"url"`
}

func (s *Server) handleRunAutomated(w http.ResponseWriter, r *http.Request) {
	var req runAutomatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SiteID <= 0 {
		s.writeError(w, http.StatusBadRequest, "site_id is required")
		return
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	groups, rt, err := s.scanner.RunForSite(r.Context(), req.SiteID, req.URL)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result": map[string]any{
			"automated_result": groups,
			"result_time":      rt,
		},
	})
}

func (s *Server) handleGetAutomated(w http.ResponseWriter, r *http.Request) {
	siteID, err := siteIDParam(r, "siteid")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid site id")
		return
	}

	groups, err := s.scanner.Result(r.Context(), siteID)
	if err != nil {
		// A site that was never scanned is not an error to the result
		// view; it renders an empty state off this message.
		if errors.Is(err, apperrors.ErrNotFound) {
			s.writeJSON(w, http.StatusOK, map[string]any{
				"success": false,
				"message": "Site does not exit",
			})
			return
		}
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  groups,
	})
}

func (s *Server) handleGuestScan(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	groups, err := s.scanner.RunGuest(r.Context(), url)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  groups,
	})
}

func siteIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation(name, "must be a positive integer")
	}
	return id, nil
}
