// navdata/airway.go
// Copyright(c) 2022 Matt Pharr, Apache License

package navdata

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

// LevelClass says whether an airway segment is part of the upper or the
// lower airspace structure, or both.
type LevelClass byte

const (
	LevelUnknown LevelClass = 0
	High         LevelClass = 'H'
	Low          LevelClass = 'L'
	Both         LevelClass = 'B'
)

func (c LevelClass) String() string {
	if c == LevelUnknown {
		return ""
	}
	return string(rune(c))
}

const notEstablished = "NESTB"

// Neighbour is the adjacent fix along an airway.
type Neighbour struct {
	Name     string
	Position coord.Position
	// MinimumLevel is the minimum altitude in feet for the leg, or 0 if
	// none is given. NotEstablished is set when the file gives NESTB.
	MinimumLevel   int
	NotEstablished bool
	// Valid is set if the leg may be flown towards the neighbour.
	Valid bool
}

// Segment is one line of airway.txt: a fix on an airway along with its
// neighbours on either side. Previous or Next is nil at the ends of the
// airway.
type Segment struct {
	Fix      string
	Position coord.Position
	Type     int
	Airway   string
	Class    LevelClass
	Previous *Neighbour `json:",omitempty" msgpack:",omitempty"`
	Next     *Neighbour `json:",omitempty" msgpack:",omitempty"`
	// ValidPrevious and ValidNext hold the direction flags of missing
	// neighbours so that the file can be written back unchanged.
	ValidPrevious, ValidNext bool `json:"-"`
	Line                     int
}

// Airways holds airway.txt in file order.
type Airways struct {
	Segments []Segment
}

const airwayFields = 16

// ParseAirways parses airway.txt: fix, latitude, longitude, type,
// airway and level class, followed by five fields for each of the
// previous and next neighbours (name, latitude, longitude, minimum
// level and direction flag), all separated by tabs.
func ParseAirways(lines []grammar.Line, st *extract.State) (*Airways, error) {
	a := &Airways{}
	for _, l := range lines {
		if l.Blank() {
			continue
		}
		f := l.Cursor(st.Dialect).Fields(grammar.Tab)
		if len(f) != airwayFields {
			st.Tolerate(l, "%d fields, expected %d", len(f), airwayFields)
			continue
		}
		if f[0] == "" || f[4] == "" {
			st.Tolerate(l, "missing fix or airway name")
			continue
		}
		entity := f[4] + " " + f[0]

		seg := Segment{Fix: f[0], Airway: f[4], Line: l.Number}
		p, ok, err := decimal(l, st, entity, f[1], f[2])
		if err != nil {
			st.Tolerate(l, "%s: %v", entity, err)
			continue
		} else if !ok {
			continue
		}
		seg.Position = p
		if seg.Type, err = grammar.ParseNumber[int](f[3]); err != nil {
			st.Tolerate(l, "%s: type: %v", entity, err)
			continue
		}
		switch c := strings.ToUpper(f[5]); c {
		case "H", "L", "B":
			seg.Class = LevelClass(c[0])
		case "":
		default:
			st.Tolerate(l, "%s: level class %q", entity, f[5])
			continue
		}

		if seg.Previous, seg.ValidPrevious, ok = neighbour(l, st, entity, f[6:11]); !ok {
			continue
		}
		if seg.Next, seg.ValidNext, ok = neighbour(l, st, entity, f[11:16]); !ok {
			continue
		}
		a.Segments = append(a.Segments, seg)
	}
	return a, nil
}

// neighbour decodes the five neighbour fields. The neighbour is nil if
// no name is given; ok is false if the line should be skipped.
func neighbour(l grammar.Line, st *extract.State, entity string, f []string) (n *Neighbour, valid, ok bool) {
	switch strings.ToUpper(f[4]) {
	case "Y":
		valid = true
	case "N":
	default:
		st.Tolerate(l, "%s: direction flag %q, expected Y or N", entity, f[4])
		return nil, false, false
	}
	if f[0] == "" {
		return nil, valid, true
	}

	p, keep, err := decimal(l, st, entity, f[1], f[2])
	if err != nil {
		st.Tolerate(l, "%s: neighbour %s: %v", entity, f[0], err)
		return nil, false, false
	} else if !keep {
		return nil, false, false
	}
	n = &Neighbour{Name: f[0], Position: p, Valid: valid}
	switch {
	case f[3] == "":
	case strings.EqualFold(f[3], notEstablished):
		n.NotEstablished = true
	default:
		if n.MinimumLevel, err = grammar.ParseNumber[int](f[3]); err != nil {
			st.Tolerate(l, "%s: neighbour %s: minimum level: %v", entity, f[0], err)
			return nil, false, false
		}
	}
	return n, valid, true
}

// Fix returns the segments of every airway through the named fix.
func (a *Airways) Fix(name string) []Segment {
	var r []Segment
	for _, s := range a.Segments {
		if s.Fix == name {
			r = append(r, s)
		}
	}
	return r
}

// Airway returns the segments of the named airway in file order.
func (a *Airways) Airway(name string) []Segment {
	var r []Segment
	for _, s := range a.Segments {
		if s.Airway == name {
			r = append(r, s)
		}
	}
	return r
}

// Names returns the distinct airway names in file order.
func (a *Airways) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range a.Segments {
		if !seen[s.Airway] {
			seen[s.Airway] = true
			names = append(names, s.Airway)
		}
	}
	return names
}

// Write writes the segments in airway.txt format.
func (a *Airways) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range a.Segments {
		fmt.Fprintf(bw, "%s\t%.6f\t%.6f\t%d\t%s\t%s\t%s\t%s\n", s.Fix, s.Position.Lat, s.Position.Lon,
			s.Type, s.Airway, s.Class, formatNeighbour(s.Previous, s.ValidPrevious),
			formatNeighbour(s.Next, s.ValidNext))
	}
	return bw.Flush()
}

func formatNeighbour(n *Neighbour, valid bool) string {
	flag := func(v bool) string {
		if v {
			return "Y"
		}
		return "N"
	}
	if n == nil {
		return "\t\t\t\t" + flag(valid)
	}
	level := ""
	if n.NotEstablished {
		level = notEstablished
	} else if n.MinimumLevel != 0 {
		level = fmt.Sprintf("%05d", n.MinimumLevel)
	}
	return fmt.Sprintf("%s\t%.6f\t%.6f\t%s\t%s", n.Name, n.Position.Lat, n.Position.Lon, level, flag(n.Valid))
}
