// extract/extract.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package extract holds the per-parse state shared by the section
// extractors: the live colour table, the coordinate memo, the table of
// declared designators and the diagnostic sink, along with helpers that
// apply the error policy when an entity cannot be fully resolved.
package extract

import (
	"fmt"
	"strings"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/log"
	"github.com/mmp/esfiles/style"
)

// State is owned by a single parse and must not be shared between
// goroutines.
type State struct {
	Filename string
	Dialect  grammar.Dialect
	Policy   diag.Policy
	Colours  *style.Table
	Memo     *coord.Memo
	Sink     *diag.Sink
	Logger   *log.Logger

	places map[string]coord.Position
}

// NewState returns the state for parsing one document. If colours is
// non-nil it seeds the colour table; it is copied, not modified.
func NewState(filename string, d grammar.Dialect, p diag.Policy, colours *style.Table, lg *log.Logger) *State {
	t := style.NewTable()
	if colours != nil {
		t = colours.Snapshot()
	}
	return &State{
		Filename: filename,
		Dialect:  d,
		Policy:   p,
		Colours:  t,
		Memo:     coord.NewMemo(d, 0),
		Sink:     diag.NewSink(filename, lg),
		Logger:   lg,
		places:   make(map[string]coord.Position),
	}
}

// Tolerate records that l did not match the entity grammar of its
// section.
func (s *State) Tolerate(l grammar.Line, format string, args ...any) {
	s.Sink.Tolerate(l, fmt.Errorf(format, args...))
}

// Keep records err against entity and reports whether the policy keeps
// the entity. A nil error always keeps it.
func (s *State) Keep(l grammar.Line, entity string, err error) bool {
	return s.Sink.Resolve(s.Policy, l, entity, err) == diag.Keep
}

// Declare records the position of a navaid, fix or airport so that later
// entities may refer to it by name. The first declaration of a name wins.
func (s *State) Declare(name string, p coord.Position) {
	if _, ok := s.places[name]; !ok {
		s.places[name] = p
	}
}

// Lookup returns the position of a previously declared designator.
func (s *State) Lookup(name string) (coord.Position, bool) {
	p, ok := s.places[name]
	return p, ok
}

// IsPosition reports whether both tokens are coordinate parts.
func (s *State) IsPosition(a, b string) bool {
	return s.Memo.IsPart(a) && s.Memo.IsPart(b)
}

// Position decodes the pair a, b. It returns an error only if one of the
// tokens is not a coordinate part at all, in which case the caller should
// tolerate the line. Resolution failures are recorded against entity and
// keep reports whether the policy retains it.
func (s *State) Position(l grammar.Line, entity, a, b string) (p coord.Position, keep bool, err error) {
	pa, err := s.Memo.Part(a)
	if err != nil {
		return coord.Position{}, false, err
	}
	pb, err := s.Memo.Part(b)
	if err != nil {
		return coord.Position{}, false, err
	}
	p, cerr := coord.ParseCoordinate(pa, pb)
	return p, s.Keep(l, entity, cerr), nil
}

// Location decodes a pair of tokens that give either a position or, when
// both are the same designator, a reference to a previously declared
// navaid, fix or airport. References to undeclared names are returned
// unresolved.
func (s *State) Location(l grammar.Line, entity, a, b string) (loc coord.Location, keep bool, err error) {
	if s.IsPosition(a, b) {
		p, keep, err := s.Position(l, entity, a, b)
		return coord.At(p), keep, err
	}
	if a != b || a == "" {
		return coord.Location{}, false, fmt.Errorf("%q %q: %w", a, b, grammar.ErrNotCoordinate)
	}
	loc = coord.Location{Name: a}
	loc.Position, loc.Resolved = s.Lookup(a)
	return loc, true, nil
}

// Colour resolves a colour reference against the colour table as it
// stands. Tokens that are plain integers are taken as literal packed
// colours. An undefined name gives the zero colour if the policy keeps
// the entity.
func (s *State) Colour(l grammar.Line, entity, token string) (style.RGB, bool) {
	if token == "" {
		return style.RGB{}, true
	}
	if v, err := grammar.ParseNumber[int](token); err == nil && v >= 0 {
		return style.FromEuroscope(v), true
	}
	v, err := s.Colours.Resolve(token)
	if err != nil {
		return style.RGB{}, s.Keep(l, entity, err)
	}
	return style.FromEuroscope(v), true
}

// Define handles a "#define <name> <value>" line, adding it to the colour
// table. It reports whether l was a definition; malformed definitions are
// tolerated.
func (s *State) Define(l grammar.Line) bool {
	c := l.Cursor(s.Dialect)
	if !c.Keyword("#define") {
		return false
	}
	f := c.Fields(grammar.Space)
	if len(f) != 2 {
		s.Tolerate(l, "#define: %d fields, expected name and value", len(f))
		return true
	}
	v, err := grammar.ParseNumber[uint32](f[1])
	if err != nil {
		s.Tolerate(l, "#define %s: %q is not an unsigned integer", f[0], f[1])
		return true
	}
	s.Colours.Define(f[0], int(v), l.Number)
	return true
}

// Section is a bracketed header and the lines that follow it up to the
// next header.
type Section struct {
	Name   string // upper-cased; empty for lines before the first header
	Header grammar.Line
	Lines  []grammar.Line
}

// Split divides lines into sections at each bracketed header. Lines
// before the first header form a section with an empty name, omitted if
// there are none.
func Split(lines []grammar.Line, filename string) ([]Section, error) {
	var sections []Section
	cur := Section{}
	for _, l := range lines {
		name, ok, err := l.Header(filename)
		if err != nil {
			return nil, err
		}
		if !ok {
			cur.Lines = append(cur.Lines, l)
			continue
		}
		if cur.Name != "" || len(cur.Lines) > 0 {
			sections = append(sections, cur)
		}
		cur = Section{Name: name, Header: l}
	}
	if cur.Name != "" || len(cur.Lines) > 0 {
		sections = append(sections, cur)
	}
	return sections, nil
}

// Blank reports whether l is empty apart from whitespace. Unlike
// grammar.Line.Blank, a line holding only a comment is not blank.
func Blank(l grammar.Line) bool {
	return strings.TrimSpace(l.Raw) == ""
}
