package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// # Document Format Errors (SPDX001-SPDX099)
//
//	SPDX001 - Line without a "Tag: value" separator
//	SPDX002 - <text> block never closed
//	SPDX003 - FileChecksum not in "TYPE: value" form
//	SPDX004 - FileChecksum algorithm other than SHA1, MD5, SHA256
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Unresolved licenses and/or duplicate paths; the result lists them all
//	VAL002 - Request field missing or malformed
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Import attempted without a successful validation (internal error)
//	IMP002 - Scan already has imported files
//	IMP003 - Another import is running for the scan
//	IMP004 - Too many imports running
//	IMP005 - Request cancelled
//	IMP006 - Request timed out
//
// # Catalog Errors (CAT001-CAT099)
//
//	CAT001 - Conversion or lookup references a license missing from the catalog
//	CAT002 - Requested item does not exist
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Document exceeds the size limit
//	FILE004 - No document in the request
//	FILE005 - Document contains no file entries
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key
//	DB003 - Foreign key violation
//	DB004 - Connection refused
//	DB005 - Connection reset
//	DB006 - Timeout
//	DB007 - Deadlock
//
// Sentinel errors are matched with errors.Is first. Anything else falls back
// to case-insensitive substring patterns; the first match wins, so specific
// patterns come before general ones. Unmatched errors map to ERR000.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/licscan/internal/database"
	"github.com/JonMunkholm/licscan/internal/spdx"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorSentinel struct {
	err error
	msg UserMessage
}

// errorSentinels is checked in order with errors.Is.
var errorSentinels = []errorSentinel{
	{spdx.ErrMalformedLine, UserMessage{
		Message: "The document has a line that is not a \"Tag: value\" field",
		Action:  "Check the reported line; the document must be SPDX tag-value format",
		Code:    "SPDX001",
	}},
	{spdx.ErrUnterminatedText, UserMessage{
		Message: "A <text> block in the document is never closed",
		Action:  "Add the missing </text> marker after the reported line",
		Code:    "SPDX002",
	}},
	{spdx.ErrMalformedChecksum, UserMessage{
		Message: "A FileChecksum value is malformed",
		Action:  "Checksums must look like \"SHA1: <hex>\"",
		Code:    "SPDX003",
	}},
	{spdx.ErrUnknownChecksumType, UserMessage{
		Message: "A FileChecksum uses an unsupported algorithm",
		Action:  "Only SHA1, MD5 and SHA256 checksums are accepted",
		Code:    "SPDX004",
	}},
	{ErrValidationFailed, UserMessage{
		Message: "The document has unknown licenses or duplicate file paths",
		Action:  "Add the listed licenses or conversions to the catalog and fix duplicated paths, then import again",
		Code:    "VAL001",
	}},
	{ErrInvalidInput, UserMessage{
		Message: "The request is missing a required field",
		Action:  "Check the request body and try again",
		Code:    "VAL002",
	}},
	{ErrNotChecked, UserMessage{
		Message: "Import was attempted before validation completed",
		Action:  "This is an internal error; please contact support",
		Code:    "IMP001",
	}},
	{ErrScanAlreadyImported, UserMessage{
		Message: "This scan already has imported files",
		Action:  "Create a new scan for this document",
		Code:    "IMP002",
	}},
	{ErrImportInProgress, UserMessage{
		Message: "Another import is running for this scan",
		Action:  "Wait for it to finish before importing again",
		Code:    "IMP003",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "IMP004",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP005",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller document or try again later",
		Code:    "IMP006",
	}},
	{database.ErrUnknownLicense, UserMessage{
		Message: "The license is not in the catalog",
		Action:  "Add the license to the catalog first",
		Code:    "CAT001",
	}},
	{database.ErrNotFound, UserMessage{
		Message: "The requested item does not exist",
		Action:  "Verify the ID is correct",
		Code:    "CAT002",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "Document exceeds the maximum size limit",
		Action:  "Split the scan into smaller documents",
		Code:    "FILE001",
	}},
	{ErrNoDocument, UserMessage{
		Message: "No document was provided",
		Action:  "Send the SPDX tag-value document as the request body or a \"file\" form field",
		Code:    "FILE004",
	}},
	{ErrEmptyDocument, UserMessage{
		Message: "The document contains no file entries",
		Action:  "Check that the scan was run with file-level output enabled",
		Code:    "FILE005",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{
		Message: "A record with this name already exists",
		Action:  "Use a different name",
		Code:    "DB001",
	}},
	{"violates foreign key", UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Create the parent record first",
		Code:    "DB003",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB007",
	}},
}

// defaultMessage is returned when no specific pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.err) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
