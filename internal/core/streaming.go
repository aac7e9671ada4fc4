package core

// streaming.go wraps an incoming document before it reaches the line reader:
//
//   - BOMSkippingReader: Removes the UTF-8 BOM (0xEF 0xBB 0xBF) some tools emit
//   - StreamingUTF8Sanitizer: Replaces invalid UTF-8 sequences with '?'
//   - documentReader: Counts bytes, enforces the size limit, and fingerprints
//     the raw input with xxhash
//
// Use wrapDocument to apply all transforms in the correct order.

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// ErrFileTooLarge is returned when a document exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// StreamingUTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes
// with '?' on the fly, carrying incomplete trailing sequences to the next read.
type StreamingUTF8Sanitizer struct {
	reader  io.Reader
	pending []byte
}

// NewStreamingUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewStreamingUTF8Sanitizer(r io.Reader) *StreamingUTF8Sanitizer {
	return &StreamingUTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *StreamingUTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if isAllASCII(p[:n]) {
		return n, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to hand
// out. Unless atEOF, an incomplete sequence at the end is kept in pending.
// Invalid bytes become '?' so the output never grows.
func (s *StreamingUTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	write := 0
	for read := 0; read < len(data); {
		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// BOMSkippingReader wraps an io.Reader and skips a leading UTF-8 BOM.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	buf     [3]byte
	pending []byte
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. The first call checks for and drops the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		if n == 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
			n = 0
		}
		r.pending = r.buf[:n]
	}

	if len(r.pending) > 0 {
		copied := copy(p, r.pending)
		r.pending = r.pending[copied:]
		return copied, nil
	}
	return r.reader.Read(p)
}

// documentReader counts and fingerprints the bytes read through it and
// fails once more than limit bytes have been read.
type documentReader struct {
	reader io.Reader
	digest hash.Hash
	limit  int64
	read   int64
}

// wrapDocument prepares src for line reading. The fingerprint covers the raw
// bytes exactly as received, before BOM removal or sanitization.
// A limit <= 0 disables the size check.
func wrapDocument(src io.Reader, limit int64) (io.Reader, *documentReader) {
	doc := &documentReader{reader: src, digest: xxhash.New(), limit: limit}
	return NewStreamingUTF8Sanitizer(NewBOMSkippingReader(doc)), doc
}

// Read implements io.Reader.
func (d *documentReader) Read(p []byte) (int, error) {
	n, err := d.reader.Read(p)
	d.read += int64(n)
	d.digest.Write(p[:n])
	if d.limit > 0 && d.read > d.limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, d.limit)
	}
	return n, err
}

// BytesRead returns the number of raw bytes consumed.
func (d *documentReader) BytesRead() int64 {
	return d.read
}

// Hash returns the hex-encoded xxhash fingerprint of everything read so far.
func (d *documentReader) Hash() string {
	return hex.EncodeToString(d.digest.Sum(nil))
}
