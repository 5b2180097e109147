// grammar/line.go
// Copyright(c) 2022 Matt Pharr, Apache License

package grammar

import (
	"strings"
)

const bom = "\uFEFF"

// Line is a single line of a decoded document.
type Line struct {
	Raw    string // text as it appears in the file, without the terminator
	Text   string // Raw with comments removed and trailing whitespace trimmed
	Number int    // 1-based line number
	Offset int    // byte offset of the start of the line
}

// Scan splits text into lines. "\n", "\r\n" and a lone "\r" all end a
// line, and a leading UTF-8 byte order mark is skipped.
func Scan(text string) []Line {
	var lines []Line
	offset := 0
	if strings.HasPrefix(text, bom) {
		offset = len(bom)
	}

	for n := 1; offset < len(text); n++ {
		end := offset
		for end < len(text) && text[end] != '\n' && text[end] != '\r' {
			end++
		}
		raw := text[offset:end]
		lines = append(lines, Line{
			Raw:    raw,
			Text:   strings.TrimRight(StripComment(raw), " \t"),
			Number: n,
			Offset: offset,
		})

		if end < len(text) && text[end] == '\r' {
			end++
		}
		if end < len(text) && text[end] == '\n' {
			end++
		}
		offset = end
	}
	return lines
}

// StripComment removes a trailing comment from s. A comment starts at a
// ';' that is not inside a quoted string, or at a "//" that begins a
// token.
func StripComment(s string) string {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return s[:i]
			}
		case '/':
			if !quoted && i+1 < len(s) && s[i+1] == '/' && (i == 0 || isSpace(s[i-1])) {
				return s[:i]
			}
		}
	}
	return s
}

// Blank reports whether the line has no content once comments and
// whitespace are removed.
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Text) == ""
}

// Indented reports whether the line starts with horizontal whitespace,
// which marks a continuation of a multi-line entity in sector files.
func (l Line) Indented() bool {
	return len(l.Text) > 0 && isSpace(l.Text[0])
}

// Header reports whether the line is a bracketed section header and, if
// so, returns its name upper-cased and without the brackets. A line that
// opens a bracket without closing it is a structural error.
func (l Line) Header(filename string) (name string, ok bool, err error) {
	t := strings.TrimSpace(l.Text)
	if len(t) == 0 || t[0] != '[' {
		return "", false, nil
	}
	end := strings.IndexByte(t, ']')
	if end == -1 {
		return "", false, l.Expected(filename, "']' to close section header")
	}
	return strings.ToUpper(strings.TrimSpace(t[1:end])), true, nil
}

// Cursor returns a cursor positioned at the start of the line's content.
func (l Line) Cursor(d Dialect) *Cursor {
	c := &Cursor{s: l.Text, base: l.Offset, dialect: d}
	c.skipSpace()
	return c
}
