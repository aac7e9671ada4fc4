package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidationFailed matches every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	// ErrEmptyDocument is returned for a well-formed document that
	// contains no FileName entries.
	ErrEmptyDocument = errors.New("empty document: no file entries")

	// ErrScanAlreadyImported is returned when the target scan already has files.
	ErrScanAlreadyImported = errors.New("scan already has imported files")

	// ErrNoDocument is returned when a request carries no document body.
	ErrNoDocument = errors.New("no document provided")

	// ErrInvalidInput is returned for catalog and project requests with
	// missing or malformed fields.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError lists every problem CheckRecords found.
type ValidationError struct {
	UnknownLicenses []string
	DuplicatePaths  []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if n := len(e.UnknownLicenses); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown license(s): %s", n, strings.Join(e.UnknownLicenses, ", ")))
	}
	if n := len(e.DuplicatePaths); n > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate path(s)", n))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
