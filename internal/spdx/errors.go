package spdx

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine is returned when a line outside a <text> block has no ':' separator.
	ErrMalformedLine = errors.New("malformed line: missing ':' separator")

	// ErrUnterminatedText is returned when input ends inside a <text> block.
	ErrUnterminatedText = errors.New("unterminated <text> block")

	// ErrMalformedChecksum is returned when a FileChecksum value is not "TYPE: value".
	ErrMalformedChecksum = errors.New("malformed checksum")

	// ErrUnknownChecksumType is returned for checksum algorithms other than SHA1, MD5 and SHA256.
	ErrUnknownChecksumType = errors.New("unknown checksum type")
)

// FormatError describes why a document was rejected, with enough context
// to find the offending input.
type FormatError struct {
	Line  int    // 1-based physical line (Reader) or pair position (Parser)
	Tag   string // Tag being processed, if known
	Value string // Value (or raw line text) being processed
	Err   error  // One of the Err* sentinels in this package
}

func (e *FormatError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Value)
	}
	return fmt.Sprintf("line %d: %v: %s: %q", e.Line, e.Err, e.Tag, e.Value)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
