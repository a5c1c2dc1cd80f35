package httpadapter

import (
	"encoding/json"
	"net/http"
)

type addSiteRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (s *Server) handleAddSite(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		s.writeError(w, http.StatusForbidden, "User session expired login and try again")
		return
	}

	var req addSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	site, err := s.sites.Add(r.Context(), req.Name, req.URL, userID)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"site":    site,
	})
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		s.writeError(w, http.StatusForbidden, "User session expired login and try again")
		return
	}

	sites, err := s.sites.List(r.Context(), userID)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"sites":   sites,
	})
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := siteIDParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid site id")
		return
	}

	site, rt, err := s.sites.Get(r.Context(), siteID)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"site":      site,
		"timeStamp": rt,
	})
}

func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := siteIDParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid site id")
		return
	}

	if err := s.sites.Delete(r.Context(), siteID); err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Site deleted",
	})
}
