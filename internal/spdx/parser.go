package spdx

// parser.go groups tag/value pairs into per-file records.
//
// Only three tags matter here: FileName opens a record, LicenseConcluded and
// FileChecksum fill it in. Everything else passes through untouched. Pairs
// seen before the first FileName (document and package metadata) are ignored.

import (
	"strings"
)

// Tags consumed by the parser.
const (
	TagFileName         = "FileName"
	TagLicenseConcluded = "LicenseConcluded"
	TagFileChecksum     = "FileChecksum"
)

type parserState int

const (
	parserReady parserState = iota
	parserMidFile
	parserFailed
)

// Parser builds Records from a sequence of pairs. Create one with NewParser.
type Parser struct {
	state   parserState
	current *Record
	records []*Record
	pairNum int
	err     error
}

// NewParser returns a Parser with no open record.
func NewParser() *Parser {
	return &Parser{records: make([]*Record, 0)}
}

// ParseNextPair consumes one tag/value pair. Errors report the pair's
// position in the sequence.
func (p *Parser) ParseNextPair(tag, value string) {
	p.parse(tag, value, 0)
}

// ParsePair is ParseNextPair for a Pair from a Reader; errors report the
// document line the pair started on.
func (p *Parser) ParsePair(pair Pair) {
	p.parse(pair.Tag, pair.Value, pair.Line)
}

func (p *Parser) parse(tag, value string, line int) {
	p.pairNum++
	if line <= 0 {
		line = p.pairNum
	}

	switch p.state {
	case parserReady:
		if tag == TagFileName {
			p.current = NewRecord(value)
			p.state = parserMidFile
		}
	case parserMidFile:
		p.parseMidFile(tag, value, line)
	case parserFailed:
	}
}

func (p *Parser) parseMidFile(tag, value string, line int) {
	switch tag {
	case TagFileName:
		p.records = append(p.records, p.current)
		p.current = NewRecord(value)
	case TagLicenseConcluded:
		p.current.SetLicense(value)
	case TagFileChecksum:
		parts := strings.Split(value, ":")
		if len(parts) != 2 {
			p.fail(&FormatError{Line: line, Tag: tag, Value: value, Err: ErrMalformedChecksum})
			return
		}
		algorithm := strings.TrimSpace(parts[0])
		if !p.current.setChecksum(algorithm, strings.TrimSpace(parts[1])) {
			p.fail(&FormatError{Line: line, Tag: tag, Value: value, Err: ErrUnknownChecksumType})
		}
	}
}

func (p *Parser) fail(err error) {
	p.state = parserFailed
	p.err = err
	p.current = nil
}

// IsError reports whether the parser has hit a fatal format error.
func (p *Parser) IsError() bool {
	return p.state == parserFailed
}

// Err returns the fatal format error, or nil.
func (p *Parser) Err() error {
	return p.err
}

// Finalize closes the open record, if any, and returns every record parsed.
// Returns nil if the parser is in the error state. A document without any
// FileName entries yields an empty, non-nil slice.
func (p *Parser) Finalize() []*Record {
	if p.state == parserFailed {
		return nil
	}
	if p.current != nil {
		p.records = append(p.records, p.current)
		p.current = nil
	}
	p.state = parserReady
	return p.records
}

// ParseAll runs every pair through a new Parser.
func ParseAll(pairs []Pair) ([]*Record, error) {
	p := NewParser()
	for _, pair := range pairs {
		p.ParsePair(pair)
		if p.IsError() {
			return nil, p.Err()
		}
	}
	return p.Finalize(), nil
}
