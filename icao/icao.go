// icao/icao.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package icao parses EuroScope's tab-separated ICAO reference tables:
// ICAO_Aircraft.txt, ICAO_Airlines.txt and ICAO_Airports.txt.
package icao

import (
	"errors"
	"strings"

	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

var ErrDuplicate = errors.New("duplicate designator")

// WTC is the ICAO wake turbulence category.
type WTC byte

const (
	WTCUnknown WTC = 0
	Light      WTC = 'L'
	Medium     WTC = 'M'
	Heavy      WTC = 'H'
	Super      WTC = 'J'
)

func (w WTC) String() string {
	if w == WTCUnknown {
		return "-"
	}
	return string(rune(w))
}

type AircraftType byte

const (
	TypeUnknown AircraftType = 0
	Landplane   AircraftType = 'L'
	Seaplane    AircraftType = 'S'
	Amphibian   AircraftType = 'A'
	Helicopter  AircraftType = 'H'
	Gyrocopter  AircraftType = 'G'
	Tiltrotor   AircraftType = 'T'
)

func (t AircraftType) String() string {
	switch t {
	case Landplane:
		return "landplane"
	case Seaplane:
		return "seaplane"
	case Amphibian:
		return "amphibian"
	case Helicopter:
		return "helicopter"
	case Gyrocopter:
		return "gyrocopter"
	case Tiltrotor:
		return "tiltrotor"
	default:
		return "unknown"
	}
}

type EngineType byte

const (
	EngineUnknown EngineType = 0
	Jet           EngineType = 'J'
	Turboprop     EngineType = 'T'
	Piston        EngineType = 'P'
	Electric      EngineType = 'E'
	Rocket        EngineType = 'R'
)

func (e EngineType) String() string {
	switch e {
	case Jet:
		return "jet"
	case Turboprop:
		return "turboprop"
	case Piston:
		return "piston"
	case Electric:
		return "electric"
	case Rocket:
		return "rocket"
	default:
		return "unknown"
	}
}

type Aircraft struct {
	Designator string
	WTC        WTC
	Type       AircraftType
	// Engines is 0 when the count is not given or the engines are
	// coupled ("C").
	Engines      int
	Engine       EngineType
	Manufacturer string
	Model        string
	Line         int
}

type Airline struct {
	Designator string
	Name       string
	Callsign   string
	Country    string
	Line       int
}

type Airport struct {
	Designator string
	Name       string
	Country    string
	Line       int
}

// table handles the shared layout of the reference tables: one record
// per line with tab-separated fields, the designator first. A designator
// that repeats keeps its first record.
func table(lines []grammar.Line, st *extract.State, nfields int, what string,
	add func(l grammar.Line, f []string) bool) {
	seen := make(map[string]bool)
	for _, l := range lines {
		if l.Blank() {
			continue
		}
		if !strings.Contains(l.Text, "\t") {
			st.Tolerate(l, "expected tab-separated %s", what)
			continue
		}
		f := l.Cursor(st.Dialect).Fields(grammar.Tab)
		if len(f) != nfields || f[0] == "" {
			st.Tolerate(l, "%d fields, expected %d for %s", len(f), nfields, what)
			continue
		}
		if seen[f[0]] {
			st.Sink.Semantic(l, f[0], ErrDuplicate, diag.Drop)
			continue
		}
		if add(l, f) {
			seen[f[0]] = true
		}
	}
}

// ParseAircraft parses ICAO_Aircraft.txt, whose lines are designator,
// type code (e.g. "ML2J"), manufacturer and model.
func ParseAircraft(lines []grammar.Line, st *extract.State) (map[string]Aircraft, error) {
	m := make(map[string]Aircraft)
	table(lines, st, 4, "designator, code, manufacturer and model", func(l grammar.Line, f []string) bool {
		code := f[1]
		if len(code) != 4 {
			st.Tolerate(l, "%s: type code %q is not 4 characters", f[0], code)
			return false
		}
		ac := Aircraft{Designator: f[0], Manufacturer: f[2], Model: f[3], Line: l.Number}
		switch w := WTC(code[0]); w {
		case Light, Medium, Heavy, Super:
			ac.WTC = w
		}
		switch t := AircraftType(code[1]); t {
		case Landplane, Seaplane, Amphibian, Helicopter, Gyrocopter, Tiltrotor:
			ac.Type = t
		}
		if code[2] >= '1' && code[2] <= '9' {
			ac.Engines = int(code[2] - '0')
		}
		switch e := EngineType(code[3]); e {
		case Jet, Turboprop, Piston, Electric, Rocket:
			ac.Engine = e
		}
		m[ac.Designator] = ac
		return true
	})
	return m, nil
}

// ParseAirlines parses ICAO_Airlines.txt: designator, name, callsign and
// country.
func ParseAirlines(lines []grammar.Line, st *extract.State) (map[string]Airline, error) {
	m := make(map[string]Airline)
	table(lines, st, 4, "designator, name, callsign and country", func(l grammar.Line, f []string) bool {
		m[f[0]] = Airline{Designator: f[0], Name: f[1], Callsign: f[2], Country: f[3], Line: l.Number}
		return true
	})
	return m, nil
}

// ParseAirports parses ICAO_Airports.txt: designator, name and country.
func ParseAirports(lines []grammar.Line, st *extract.State) (map[string]Airport, error) {
	m := make(map[string]Airport)
	table(lines, st, 3, "designator, name and country", func(l grammar.Line, f []string) bool {
		m[f[0]] = Airport{Designator: f[0], Name: f[1], Country: f[2], Line: l.Number}
		return true
	})
	return m, nil
}
