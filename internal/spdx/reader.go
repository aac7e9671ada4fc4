package spdx

// reader.go reconstructs tag/value pairs from the physical lines of a
// tag-value document.
//
// States:
//   - ready:    expecting a new "Tag: value" line
//   - midText:  inside a <text> block that has not been closed yet
//   - failed:   terminal, all further input is ignored
//
// Comment lines (first non-blank character '#') and blank lines are skipped
// while ready. Inside a <text> block every line is content, comments included,
// and is kept verbatim. Single-line values are trimmed.

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const (
	textOpen  = "<text>"
	textClose = "</text>"
)

// MaxLineSize is the longest physical line ReadAll accepts.
var MaxLineSize = 1024 * 1024

// Pair is one logical tag/value field of a document.
type Pair struct {
	Tag   string
	Value string
	Line  int // Physical line on which the tag appeared
}

type readerState int

const (
	readerReady readerState = iota
	readerMidText
	readerFailed
)

// Reader is a line-at-a-time tag/value lexer. The zero value is not usable;
// create one with NewReader.
type Reader struct {
	state   readerState
	lineNum int

	tag     string
	tagLine int
	value   strings.Builder

	pairs []Pair
	err   error
}

// NewReader returns a Reader in the ready state.
func NewReader() *Reader {
	return &Reader{pairs: make([]Pair, 0)}
}

// ReadNextLine consumes one physical line, without its line terminator.
func (r *Reader) ReadNextLine(line string) {
	r.lineNum++
	line = strings.TrimRight(line, "\r\n")

	switch r.state {
	case readerReady:
		r.readReady(line)
	case readerMidText:
		r.readMidText(line)
	case readerFailed:
	}
}

func (r *Reader) readReady(line string) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}

	tag, value, ok := strings.Cut(trimmed, ":")
	if !ok {
		r.fail(&FormatError{Line: r.lineNum, Value: trimmed, Err: ErrMalformedLine})
		return
	}

	r.tag = strings.TrimSpace(tag)
	r.tagLine = r.lineNum

	start := strings.Index(value, textOpen)
	if start < 0 {
		r.emit(strings.TrimSpace(value))
		return
	}

	// Text before the marker stays part of the value.
	lead := strings.TrimLeftFunc(value[:start], unicode.IsSpace)
	rest := value[start+len(textOpen):]
	if end := strings.Index(rest, textClose); end >= 0 {
		r.emit(strings.TrimSpace(lead + rest[:end]))
		return
	}

	if opening := lead + rest; strings.TrimSpace(opening) != "" {
		r.value.WriteString(opening)
		r.value.WriteByte('\n')
	}
	r.state = readerMidText
}

func (r *Reader) readMidText(line string) {
	end := strings.Index(line, textClose)
	if end < 0 {
		r.value.WriteString(line)
		r.value.WriteByte('\n')
		return
	}

	value := r.value.String()
	if last := line[:end]; strings.TrimSpace(last) != "" {
		value += last
	} else {
		value = strings.TrimSuffix(value, "\n")
	}
	r.emit(value)
	r.state = readerReady
}

// emit appends the completed pair and clears the scratch state.
// Body lines of a <text> block are kept verbatim.
func (r *Reader) emit(value string) {
	r.pairs = append(r.pairs, Pair{
		Tag:   r.tag,
		Value: value,
		Line:  r.tagLine,
	})
	r.tag = ""
	r.tagLine = 0
	r.value.Reset()
}

func (r *Reader) fail(err error) {
	r.state = readerFailed
	r.err = err
	r.tag = ""
	r.value.Reset()
}

// Finish marks the end of input. Input that ends inside a <text> block
// puts the reader in the error state.
func (r *Reader) Finish() error {
	if r.state == readerMidText {
		r.fail(&FormatError{
			Line:  r.tagLine,
			Tag:   r.tag,
			Value: truncate(r.value.String(), 80),
			Err:   ErrUnterminatedText,
		})
	}
	return r.err
}

// IsError reports whether the reader has hit a fatal format error.
func (r *Reader) IsError() bool {
	return r.state == readerFailed
}

// Err returns the fatal format error, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Pairs returns every completed pair in document order.
// Returns nil once the reader is in the error state.
func (r *Reader) Pairs() []Pair {
	if r.state == readerFailed {
		return nil
	}
	return r.pairs
}

// LineCount returns the number of physical lines consumed so far.
func (r *Reader) LineCount() int {
	return r.lineNum
}

// ReadAll reads every line from src and returns the resulting pairs.
func ReadAll(src io.Reader) ([]Pair, error) {
	r := NewReader()

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		r.ReadNextLine(scanner.Text())
		if r.IsError() {
			return nil, r.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	if err := r.Finish(); err != nil {
		return nil, err
	}
	return r.Pairs(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
