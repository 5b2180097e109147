// grammar/cursor.go
// Copyright(c) 2022 Matt Pharr, Apache License

package grammar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotCoordinate = errors.New("not a coordinate")
	ErrHemisphere    = errors.New("hemisphere must be upper case")
)

// Delims is a set of field terminators. The end of the line always
// terminates a field.
type Delims uint16

const (
	Colon Delims = 1 << iota
	Comma
	Backslash
	Quote
	Tab
	Space
	Equals
)

func (d Delims) has(c byte) bool {
	switch c {
	case ':':
		return d&Colon != 0
	case ',':
		return d&Comma != 0
	case '\\':
		return d&Backslash != 0
	case '"':
		return d&Quote != 0
	case '\t':
		return d&(Tab|Space) != 0
	case ' ':
		return d&Space != 0
	case '=':
		return d&Equals != 0
	}
	return false
}

// Cursor scans a single line. Every primitive either matches, advancing
// past the token and any horizontal whitespace that follows it, or fails
// and leaves the cursor where it was.
type Cursor struct {
	s       string
	pos     int
	base    int
	dialect Dialect
}

// NewCursor returns a cursor over s, which is assumed to have had its
// comments removed already.
func NewCursor(s string, d Dialect) *Cursor {
	c := &Cursor{s: s, dialect: d}
	c.skipSpace()
	return c
}

func (c *Cursor) Dialect() Dialect { return c.dialect }

// Mark returns the current position for a later Reset.
func (c *Cursor) Mark() int { return c.pos }

func (c *Cursor) Reset(m int) { c.pos = m }

// Offset returns the byte offset of the cursor in the whole document.
func (c *Cursor) Offset() int { return c.base + c.pos }

// Done reports whether the line has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.s) }

// Remaining returns the unconsumed text without consuming it.
func (c *Cursor) Remaining() string { return c.s[c.pos:] }

func (c *Cursor) Peek() byte {
	if c.pos < len(c.s) {
		return c.s[c.pos]
	}
	return 0
}

func (c *Cursor) skipSpace() {
	for c.pos < len(c.s) && isSpace(c.s[c.pos]) {
		c.pos++
	}
}

// atBoundary reports whether a numeric token may end at i.
func (c *Cursor) atBoundary(i int) bool {
	return i >= len(c.s) || !(isAlnum(c.s[i]) || c.s[i] == '.')
}

// Integer matches an optionally signed run of digits.
func (c *Cursor) Integer() (int, bool) {
	n := scanInteger(c.s[c.pos:])
	if n == 0 || !c.atBoundary(c.pos+n) {
		return 0, false
	}
	v, err := strconv.Atoi(c.s[c.pos : c.pos+n])
	if err != nil {
		return 0, false
	}
	c.pos += n
	c.skipSpace()
	return v, true
}

// Decimal matches an optionally signed decimal number.
func (c *Cursor) Decimal() (float64, bool) {
	n := scanDecimal(c.s[c.pos:], c.dialect)
	if n == 0 || !c.atBoundary(c.pos+n) {
		return 0, false
	}
	v, err := strconv.ParseFloat(c.s[c.pos:c.pos+n], 64)
	if err != nil {
		return 0, false
	}
	c.pos += n
	c.skipSpace()
	return v, true
}

// Word matches a run of characters up to the next whitespace.
func (c *Cursor) Word() (string, bool) {
	start := c.pos
	for c.pos < len(c.s) && !isSpace(c.s[c.pos]) {
		c.pos++
	}
	if c.pos == start {
		return "", false
	}
	w := c.s[start:c.pos]
	c.skipSpace()
	return w, true
}

// CoordPart matches a single coordinate component, either sexagesimal
// ("N048.21.13.618") or a signed decimal.
func (c *Cursor) CoordPart() (Part, bool) {
	m := c.pos
	w, ok := c.Word()
	if !ok {
		return Part{}, false
	}
	p, err := ParsePart(w, c.dialect)
	if err != nil {
		c.Reset(m)
		return Part{}, false
	}
	return p, true
}

// Field returns the text up to the next delimiter in d or the end of the
// line, with surrounding whitespace trimmed. The delimiter itself is not
// consumed. Field always succeeds, possibly with an empty string.
func (c *Cursor) Field(d Delims) string {
	start := c.pos
	for c.pos < len(c.s) && !d.has(c.s[c.pos]) {
		c.pos++
	}
	return strings.TrimSpace(c.s[start:c.pos])
}

// Text is like Field but fails if the field is empty.
func (c *Cursor) Text(d Delims) (string, bool) {
	m := c.pos
	if f := c.Field(d); f != "" {
		return f, true
	}
	c.Reset(m)
	return "", false
}

// Expect matches the single byte b.
func (c *Cursor) Expect(b byte) bool {
	if c.pos < len(c.s) && c.s[c.pos] == b {
		c.pos++
		c.skipSpace()
		return true
	}
	return false
}

// Literal matches s exactly.
func (c *Cursor) Literal(s string) bool {
	if strings.HasPrefix(c.s[c.pos:], s) {
		c.pos += len(s)
		c.skipSpace()
		return true
	}
	return false
}

// Keyword matches s case-insensitively when it is not immediately
// followed by another identifier character.
func (c *Cursor) Keyword(s string) bool {
	end := c.pos + len(s)
	if end > len(c.s) || !strings.EqualFold(c.s[c.pos:end], s) {
		return false
	}
	if end < len(c.s) && isAlnum(c.s[end]) {
		return false
	}
	c.pos = end
	c.skipSpace()
	return true
}

// Rest consumes and returns the remainder of the line, trimmed.
func (c *Cursor) Rest() string {
	r := strings.TrimSpace(c.s[c.pos:])
	c.pos = len(c.s)
	return r
}

// Fields consumes the remainder of the line and splits it at every
// delimiter in d. Fields are trimmed; empty fields are kept except when
// splitting on whitespace.
func (c *Cursor) Fields(d Delims) []string {
	rest := c.s[c.pos:]
	c.pos = len(c.s)
	if d == Space {
		return strings.Fields(rest)
	}
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	var f []string
	start := 0
	for i := 0; i < len(rest); i++ {
		if d.has(rest[i]) {
			f = append(f, strings.TrimSpace(rest[start:i]))
			start = i + 1
		}
	}
	return append(f, strings.TrimSpace(rest[start:]))
}

// Errorf returns an error that records the cursor's document offset.
func (c *Cursor) Errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: "+format, append([]any{c.Offset()}, args...)...)
}

func scanInteger(s string) int {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

// scanDecimal returns the length of the decimal number at the start of
// s, or zero if there is none.
func scanDecimal(s string, d Dialect) int {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	haveInt := i > intStart
	if i < len(s) && s[i] == '.' {
		fracStart := i + 1
		j := fracStart
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		switch {
		case j > fracStart && (haveInt || d == Modern):
			return j
		case j == fracStart && haveInt:
			// "12." is accepted as 12
			return fracStart
		}
	}
	if !haveInt {
		return 0
	}
	return i
}
