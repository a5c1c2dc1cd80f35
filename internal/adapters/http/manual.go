package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
)

func (s *Server) handleEvalFormDetails(w http.ResponseWriter, r *http.Request) {
	form, err := s.catalog.Load(r.Context())
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"principles":        form.Principles,
		"groupedGuidelines": form.GroupedGuidelines,
		"groupedQuestions":  form.GroupedQuestions,
	})
}

type saveManualRequest struct {
	SiteID       int64                    `json:"site_id"`
	EvalFormData map[string]domain.Answer `json:"evalFormData"`
}

func (s *Server) handleSaveManual(w http.ResponseWriter, r *http.Request) {
	var req saveManualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SiteID <= 0 {
		s.writeError(w, http.StatusBadRequest, "site_id is required")
		return
	}

	stored, _, err := s.manualEval.Save(r.Context(), req.SiteID, req.EvalFormData)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  stored,
	})
}

func (s *Server) handleGetManual(w http.ResponseWriter, r *http.Request) {
	siteID, err := siteIDParam(r, "siteid")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid site id")
		return
	}

	set, err := s.manualEval.Results(r.Context(), siteID)
	if err != nil {
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
		"result":  set.Grouped(),
	})
}
