// coord/coord.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package coord implements the geographic position model shared by all of
// the formats: construction from sexagesimal or decimal coordinate parts,
// validation, and formatting back to the "N048.21.13.618" style.
package coord

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmp/esfiles/grammar"
	"github.com/skypies/geo"
)

var (
	ErrAmbiguousCoordinate = errors.New("ambiguous coordinate")
	ErrOutOfRange          = errors.New("coordinate out of range")
)

// Position is a latitude-longitude pair in signed decimal degrees.
type Position struct {
	Lat, Lon float64
}

// New returns the position at (lat, lon), checking that both are in
// range.
func New(lat, lon float64) (Position, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Position{}, fmt.Errorf("latitude %g: %w", lat, ErrOutOfRange)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Position{}, fmt.Errorf("longitude %g: %w", lon, ErrOutOfRange)
	}
	return Position{Lat: lat, Lon: lon}, nil
}

// ParseCoordinate combines two coordinate parts, given in file order,
// into a position. Sexagesimal parts are placed by their hemisphere
// letter regardless of order. Two decimal parts are taken as (lat, lon).
// When one part is decimal, it takes whichever axis the other part does
// not declare.
func ParseCoordinate(a, b grammar.Part) (Position, error) {
	var lat, lon float64
	switch {
	case a.Sexagesimal && b.Sexagesimal:
		if a.Axis == b.Axis {
			return Position{}, fmt.Errorf("%s %s: both parts are %s: %w", a.Text, b.Text,
				a.Axis, ErrAmbiguousCoordinate)
		}
		if a.Axis == grammar.Latitude {
			lat, lon = a.Value, b.Value
		} else {
			lat, lon = b.Value, a.Value
		}

	case a.Sexagesimal:
		if a.Axis == grammar.Latitude {
			lat, lon = a.Value, b.Value
		} else {
			lat, lon = b.Value, a.Value
		}

	case b.Sexagesimal:
		if b.Axis == grammar.Longitude {
			lat, lon = a.Value, b.Value
		} else {
			lat, lon = b.Value, a.Value
		}

	default:
		lat, lon = a.Value, b.Value
	}

	p, err := New(lat, lon)
	if err != nil {
		return Position{}, fmt.Errorf("%s %s: %w", a.Text, b.Text, err)
	}
	return p, nil
}

// Parse parses a pair of coordinate tokens.
func Parse(a, b string, d grammar.Dialect) (Position, error) {
	pa, err := grammar.ParsePart(a, d)
	if err != nil {
		return Position{}, err
	}
	pb, err := grammar.ParsePart(b, d)
	if err != nil {
		return Position{}, err
	}
	return ParseCoordinate(pa, pb)
}

// ParseDMS parses a string of the form returned by Position.DMS.
func ParseDMS(s string) (Position, error) {
	f := strings.Fields(s)
	if len(f) != 2 {
		return Position{}, fmt.Errorf("%q: %w", s, grammar.ErrNotCoordinate)
	}
	return Parse(f[0], f[1], grammar.Modern)
}

// FormatPart formats a single axis value as <hemisphere><deg>.<min>.<sec>.
// Seconds have at least three decimals and at most six; trailing zeros
// beyond the third are dropped.
func FormatPart(v float64, latitude bool) string {
	var h byte
	switch {
	case latitude && v < 0:
		h = 'S'
	case latitude:
		h = 'N'
	case v < 0:
		h = 'W'
	default:
		h = 'E'
	}

	// Microseconds of arc.
	us := int64(math.Round(math.Abs(v) * 3600 * 1e6))
	deg := us / 3600e6
	mins := (us / 60e6) % 60
	sec := (us / 1e6) % 60
	frac := strings.TrimRight(fmt.Sprintf("%06d", us%1e6), "0")
	if len(frac) < 3 {
		frac += strings.Repeat("0", 3-len(frac))
	}
	return fmt.Sprintf("%c%03d.%02d.%02d.%s", h, deg, mins, sec, frac)
}

// DMS returns the position in the format "N040.37.58.400 W073.46.17.000".
func (p Position) DMS() string {
	return FormatPart(p.Lat, true) + " " + FormatPart(p.Lon, false)
}

func (p Position) String() string {
	return p.DMS()
}

// Decimal returns the position as a pair of signed decimal degrees.
func (p Position) Decimal() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + " " + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

func (p Position) latlong() geo.Latlong {
	return geo.Latlong{Lat: p.Lat, Long: p.Lon}
}

// DistanceKM returns the great-circle distance between two positions.
func (p Position) DistanceKM(q Position) float64 {
	return p.latlong().DistKM(q.latlong())
}

// Location is a point given either as a literal position or as the
// designator of a previously declared navaid, fix or airport.
type Location struct {
	Name     string   // designator, if the point was given by name
	Position Position // valid only if Resolved
	Resolved bool
}

// At returns a resolved Location for a literal position.
func At(p Position) Location {
	return Location{Position: p, Resolved: true}
}

func (l Location) String() string {
	switch {
	case l.Name != "" && l.Resolved:
		return l.Name + " (" + l.Position.DMS() + ")"
	case l.Name != "":
		return l.Name
	default:
		return l.Position.DMS()
	}
}
