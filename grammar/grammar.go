// grammar/grammar.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package grammar provides the lexical layer shared by all of the
// EuroScope text formats: line scanning with comment stripping, a
// backtracking cursor over a single line, and the numeric, coordinate and
// delimited-text primitives that the section extractors are built from.
package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Dialect selects between the historical variants of the shared
// primitives.
type Dialect int

const (
	// Legacy is used by sector files: hemisphere letters must be upper
	// case and decimals need a leading digit.
	Legacy Dialect = iota
	// Modern is used by the airspace, TopSky and symbology formats:
	// hemisphere letters are case-insensitive and ".5" is a valid decimal.
	Modern
)

func (d Dialect) String() string {
	switch d {
	case Legacy:
		return "legacy"
	case Modern:
		return "modern"
	default:
		return "Dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// StructuralError reports that the framing of a document could not be
// matched. It is the only error that aborts a parse.
type StructuralError struct {
	Filename string
	Line     int // 1-based; 0 when the error is at end of input
	Offset   int // byte offset into the decoded text
	Expected string
	Found    string
}

func (e *StructuralError) Error() string {
	fn := e.Filename
	if fn == "" {
		fn = "<input>"
	}
	found := e.Found
	if len(found) > 40 {
		found = found[:40] + "..."
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: expected %s, found %q", fn, e.Expected, found)
	}
	return fmt.Sprintf("%s:%d: expected %s, found %q", fn, e.Line, e.Expected, found)
}

// Expected returns a StructuralError positioned at the start of l.
func (l Line) Expected(filename, what string) *StructuralError {
	return &StructuralError{
		Filename: filename,
		Line:     l.Number,
		Offset:   l.Offset,
		Expected: what,
		Found:    strings.TrimSpace(l.Raw),
	}
}

// ParseNumber parses s, ignoring surrounding whitespace, as a number of
// type T.
func ParseNumber[T constraints.Integer | constraints.Float](s string) (T, error) {
	s = strings.TrimSpace(s)
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, err
		}
		return T(v), nil
	case uint, uint8, uint16, uint32, uint64, uintptr:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return T(v), nil
	default:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return T(v), nil
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
