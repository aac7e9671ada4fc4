package web

// errors.go turns errors into responses. The technical error is logged with
// the request ID; the client gets the core.MapError message and code, as JSON
// for API routes and as an HTML alert for pages.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/licscan/internal/core"
	"github.com/JonMunkholm/licscan/internal/database"
	"github.com/JonMunkholm/licscan/internal/logging"
	"github.com/JonMunkholm/licscan/internal/spdx"
	"github.com/JonMunkholm/licscan/internal/web/templates"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var pgErr *pgconn.PgError
	var maxBytes *http.MaxBytesError

	switch {
	case errors.Is(err, core.ErrValidationFailed),
		errors.Is(err, database.ErrUnknownLicense):
		return http.StatusUnprocessableEntity
	case errors.Is(err, spdx.ErrMalformedLine),
		errors.Is(err, spdx.ErrUnterminatedText),
		errors.Is(err, spdx.ErrMalformedChecksum),
		errors.Is(err, spdx.ErrUnknownChecksumType),
		errors.Is(err, core.ErrEmptyDocument),
		errors.Is(err, core.ErrNoDocument),
		errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrScanAlreadyImported),
		errors.Is(err, core.ErrImportInProgress):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case pgUniqueViolation:
			return http.StatusConflict
		case pgForeignKeyViolation:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{
			Error:  userMsg.Message,
			Action: userMsg.Action,
			Code:   userMsg.Code,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page := templates.Layout("Error", templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code))
	if err := page.Render(r.Context(), w); err != nil {
		log.Error("render error page", "error", err)
	}
}

// wantsJSON reports whether the client should get a JSON error body.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
