// diag/diag.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package diag collects the non-fatal problems found while parsing a
// document: lines that did not match their section's entity grammar and
// entities whose coordinates, colours or styles could not be resolved.
package diag

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/log"
	"github.com/mmp/esfiles/style"
)

var ErrEntityTolerated = errors.New("line did not match entity grammar")

type Kind int

const (
	// Tolerated lines failed their entity grammar; the raw text is kept
	// and parsing carries on with the next line.
	Tolerated Kind = iota
	// Semantic diagnostics are attached to an entity that parsed but
	// could not be fully resolved.
	Semantic
)

func (k Kind) String() string {
	if k == Tolerated {
		return "tolerated"
	}
	return "semantic"
}

// Action is what happens to an entity with a semantic error.
type Action int

const (
	Keep Action = iota // keep the entity, with a default for the bad field
	Drop               // omit the entity from the document
)

func (a Action) String() string {
	if a == Keep {
		return "keep"
	}
	return "drop"
}

// Policy selects the Action for each class of semantic error.
type Policy struct {
	Coordinate Action
	Colour     Action
	Style      Action
}

// DefaultPolicy drops entities with unusable coordinates and keeps those
// with cosmetic problems.
var DefaultPolicy = Policy{Coordinate: Drop, Colour: Keep, Style: Keep}

// Strict drops every entity with a semantic error.
var Strict = Policy{Coordinate: Drop, Colour: Drop, Style: Drop}

// IsCoordinateError reports whether err came from coordinate parsing or
// validation.
func IsCoordinateError(err error) bool {
	return errors.Is(err, coord.ErrAmbiguousCoordinate) || errors.Is(err, coord.ErrOutOfRange) ||
		errors.Is(err, grammar.ErrNotCoordinate) || errors.Is(err, grammar.ErrHemisphere)
}

// For returns the action for err. Errors outside the known classes drop
// the entity.
func (p Policy) For(err error) Action {
	switch {
	case IsCoordinateError(err):
		return p.Coordinate
	case errors.Is(err, style.ErrUndefinedColour):
		return p.Colour
	case errors.Is(err, style.ErrUnknownStyleToken):
		return p.Style
	default:
		return Drop
	}
}

// Diagnostic describes one problem, located by line and byte offset.
type Diagnostic struct {
	Kind     Kind
	Filename string
	Line     int
	Offset   int
	Section  string
	Context  string // e.g. "AIRSPACE / SECTOR EDMM_ALB"
	Entity   string
	Raw      string
	Action   Action
	Message  string
	Err      error `json:"-" msgpack:"-"`
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: ", d.Filename, d.Line)
	if d.Context != "" {
		b.WriteString(d.Context + ": ")
	}
	if d.Entity != "" {
		b.WriteString(d.Entity + ": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Sink accumulates diagnostics for a single parse. It tracks a hierarchy
// of context (section, entity) via Push and Pop so that each diagnostic
// records where it was found.
type Sink struct {
	filename  string
	lg        *log.Logger
	hierarchy []string
	diags     []Diagnostic
}

// NewSink returns a sink for the named file. If lg is non-nil, each
// diagnostic is also logged as a warning.
func NewSink(filename string, lg *log.Logger) *Sink {
	return &Sink{filename: filename, lg: lg}
}

func (s *Sink) Push(ctx string) {
	s.hierarchy = append(s.hierarchy, ctx)
}

func (s *Sink) Pop() {
	s.hierarchy = s.hierarchy[:len(s.hierarchy)-1]
}

func (s *Sink) CurrentDepth() int {
	return len(s.hierarchy)
}

// Reset drops any pushed context; used when a new section starts.
func (s *Sink) Reset() {
	s.hierarchy = s.hierarchy[:0]
}

func (s *Sink) add(d Diagnostic) {
	d.Filename = s.filename
	if len(s.hierarchy) > 0 {
		d.Section = s.hierarchy[0]
		d.Context = strings.Join(s.hierarchy, " / ")
	}
	if d.Err != nil {
		d.Message = d.Err.Error()
	}
	s.diags = append(s.diags, d)

	if s.lg != nil {
		s.lg.Warn("diagnostic",
			slog.String("file", d.Filename),
			slog.Int("line", d.Line),
			slog.String("section", d.Section),
			slog.String("entity", d.Entity),
			slog.String("kind", d.Kind.String()),
			slog.String("message", d.Message))
	}
}

// Tolerate records that l did not match its entity grammar. The cause,
// if any, is wrapped together with ErrEntityTolerated.
func (s *Sink) Tolerate(l grammar.Line, cause error) {
	err := ErrEntityTolerated
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrEntityTolerated, cause)
	}
	s.add(Diagnostic{
		Kind:   Tolerated,
		Line:   l.Number,
		Offset: l.Offset,
		Raw:    l.Raw,
		Err:    err,
	})
}

// Semantic records a resolution failure for the named entity along with
// the action that was taken.
func (s *Sink) Semantic(l grammar.Line, entity string, err error, action Action) {
	s.add(Diagnostic{
		Kind:   Semantic,
		Line:   l.Number,
		Offset: l.Offset,
		Entity: entity,
		Raw:    l.Raw,
		Action: action,
		Err:    err,
	})
}

// Resolve records err, if non-nil, as a semantic diagnostic for entity and
// returns the action the policy selects. It returns Keep when err is nil.
func (s *Sink) Resolve(p Policy, l grammar.Line, entity string, err error) Action {
	if err == nil {
		return Keep
	}
	a := p.For(err)
	s.Semantic(l, entity, err, a)
	return a
}

func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}

func (s *Sink) HaveDiagnostics() bool {
	return len(s.diags) > 0
}

func (s *Sink) String() string {
	var lines []string
	for _, d := range s.diags {
		lines = append(lines, d.Error())
	}
	return strings.Join(lines, "\n")
}
