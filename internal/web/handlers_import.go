package web

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/JonMunkholm/licscan/internal/core"
	"github.com/JonMunkholm/licscan/internal/web/templates"
)

const (
	// multipartMemory is how much of a multipart form is kept in memory;
	// the rest spills to temporary files.
	multipartMemory = 32 << 20

	// multipartOverhead allows for form boundaries and headers on top of
	// the document size limit.
	multipartOverhead = 1 << 20

	defaultDocumentName = "document.spdx"
)

// handleImport imports one tag-value document into a scan. The document is
// either the raw request body or the "file" field of a multipart form.
//
// Responds 200 with the result, 422 with the unknown licenses and duplicate
// paths when validation fails, and the mapped error status otherwise.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	scanID, err := idParam(r, "scanID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	doc, name, cleanup, err := s.documentFromRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer cleanup()

	result, err := s.service.ImportDocument(withClient(r), scanID, name, doc)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, core.ErrValidationFailed):
		writeJSON(w, http.StatusUnprocessableEntity, result)
	default:
		s.respondError(w, r, err)
	}
}

// documentFromRequest locates the document in r. cleanup must be called once
// the document has been consumed.
func (s *Server) documentFromRequest(w http.ResponseWriter, r *http.Request) (io.Reader, string, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
			return nil, "", noop, core.ErrNoDocument
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = defaultDocumentName
		}
		return r.Body, name, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.service.MaxFileSize()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, "", noop, core.ErrFileTooLarge
		}
		return nil, "", noop, core.ErrNoDocument
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", noop, core.ErrNoDocument
	}
	cleanup := func() {
		file.Close()
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}
	return file, header.Filename, cleanup, nil
}

// handleScanReport returns the JSON report for a scan.
func (s *Server) handleScanReport(w http.ResponseWriter, r *http.Request) {
	scanID, err := idParam(r, "scanID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.service.ScanReport(r.Context(), scanID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleScanPage renders the scan report as HTML.
func (s *Server) handleScanPage(w http.ResponseWriter, r *http.Request) {
	scanID, err := idParam(r, "scanID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report, err := s.service.ScanReport(r.Context(), scanID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ScanPage(report).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}
