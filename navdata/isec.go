// navdata/isec.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package navdata parses the navigation data tables that EuroScope
// reads alongside the sector file: isec.txt, the list of intersections,
// and airway.txt, which gives each fix's neighbours along the airways
// through it.
package navdata

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

type Intersection struct {
	Name     string
	Position coord.Position
	Type     int
	Line     int
}

// Intersections holds isec.txt in file order. Names are not unique; the
// same designator is often used for fixes in different regions.
type Intersections struct {
	Fixes []Intersection
}

// ParseIntersections parses isec.txt, whose lines give name, latitude,
// longitude and type, separated by tabs.
func ParseIntersections(lines []grammar.Line, st *extract.State) (*Intersections, error) {
	x := &Intersections{}
	for _, l := range lines {
		if l.Blank() {
			continue
		}
		f := l.Cursor(st.Dialect).Fields(grammar.Space)
		if len(f) != 4 {
			st.Tolerate(l, "%d fields, expected name, latitude, longitude and type", len(f))
			continue
		}
		p, ok, err := decimal(l, st, f[0], f[1], f[2])
		if err != nil {
			st.Tolerate(l, "%s: %v", f[0], err)
			continue
		} else if !ok {
			continue
		}
		typ, err := grammar.ParseNumber[int](f[3])
		if err != nil {
			st.Tolerate(l, "%s: type: %v", f[0], err)
			continue
		}
		x.Fixes = append(x.Fixes, Intersection{Name: f[0], Position: p, Type: typ, Line: l.Number})
	}
	return x, nil
}

// decimal decodes a latitude and longitude in signed decimal degrees. A
// syntax error is returned as an error; a position that is out of range
// is recorded against entity and ok reports whether the policy keeps it.
func decimal(l grammar.Line, st *extract.State, entity, lat, lon string) (p coord.Position, ok bool, err error) {
	la, err := grammar.ParseNumber[float64](lat)
	if err != nil {
		return coord.Position{}, false, err
	}
	lo, err := grammar.ParseNumber[float64](lon)
	if err != nil {
		return coord.Position{}, false, err
	}
	p, cerr := coord.New(la, lo)
	return p, st.Keep(l, entity, cerr), nil
}

// Lookup returns every intersection with the given name.
func (x *Intersections) Lookup(name string) []Intersection {
	var r []Intersection
	for _, f := range x.Fixes {
		if f.Name == name {
			r = append(r, f)
		}
	}
	return r
}

// Nearest returns the intersection with the given name that is closest
// to p.
func (x *Intersections) Nearest(name string, p coord.Position) (Intersection, bool) {
	m := x.Lookup(name)
	if len(m) == 0 {
		return Intersection{}, false
	}
	return slices.MinFunc(m, func(a, b Intersection) int {
		return cmp.Compare(a.Position.DistanceKM(p), b.Position.DistanceKM(p))
	}), true
}

// Write writes the intersections in isec.txt format, sorted by name.
func (x *Intersections) Write(w io.Writer) error {
	fixes := slices.Clone(x.Fixes)
	slices.SortStableFunc(fixes, func(a, b Intersection) int { return cmp.Compare(a.Name, b.Name) })

	bw := bufio.NewWriter(w)
	for _, f := range fixes {
		fmt.Fprintf(bw, "%s\t%10.6f\t%11.6f\t%d\n", f.Name, f.Position.Lat, f.Position.Lon, f.Type)
	}
	return bw.Flush()
}
