package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ============================================================================
// Categories, licenses, conversions
// ============================================================================

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.service.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		SortOrder int    `json:"sortOrder"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.service.AddCategory(r.Context(), req.Name, req.SortOrder)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListLicenses(w http.ResponseWriter, r *http.Request) {
	licenses, err := s.service.ListLicenses(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, licenses)
}

func (s *Server) handleAddLicense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		CategoryID int64  `json:"categoryId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.service.AddLicense(r.Context(), req.Name, req.CategoryID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListConversions(w http.ResponseWriter, r *http.Request) {
	conversions, err := s.service.ListConversions(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conversions)
}

func (s *Server) handleAddConversion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldText    string `json:"oldText"`
		NewLicense string `json:"newLicense"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.service.AddConversion(r.Context(), req.OldText, req.NewLicense)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// ============================================================================
// Config
// ============================================================================

type configValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := s.service.GetConfig(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configValue{Key: key, Value: value})
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.SetConfig(r.Context(), key, req.Value); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configValue{Key: key, Value: req.Value})
}

// ============================================================================
// Projects, subprojects, scans
// ============================================================================

type nameRequest struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.service.AddProject(r.Context(), req.Name, req.FullName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleAddSubproject(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "projectID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.service.AddSubproject(r.Context(), projectID, req.Name, req.FullName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleAddScan(w http.ResponseWriter, r *http.Request) {
	subprojectID, err := idParam(r, "subprojectID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req struct {
		ScanDate    time.Time `json:"scanDate"`
		Description string    `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.service.AddScan(r.Context(), subprojectID, req.ScanDate, req.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}
