// grammar/part.go
// Copyright(c) 2022 Matt Pharr, Apache License

package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// Axis is the axis a coordinate part declares through its hemisphere
// letter.
type Axis int

const (
	NoAxis Axis = iota // decimal parts carry no hemisphere
	Latitude
	Longitude
)

func (a Axis) String() string {
	return [...]string{"none", "latitude", "longitude"}[a]
}

// Part is one lexical coordinate component.
type Part struct {
	Text        string
	Axis        Axis
	Value       float64 // signed decimal degrees
	Sexagesimal bool
}

// ParsePart parses a single coordinate component: either
// <hemisphere><deg>.<min>.<sec> with an optional fractional second, or a
// signed decimal number of degrees.
func ParsePart(tok string, d Dialect) (Part, error) {
	if tok == "" {
		return Part{}, ErrNotCoordinate
	}

	if n := scanDecimal(tok, d); n > 0 {
		if n != len(tok) {
			return Part{}, fmt.Errorf("%q: %w", tok, ErrNotCoordinate)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Part{}, fmt.Errorf("%q: %w", tok, ErrNotCoordinate)
		}
		return Part{Text: tok, Value: v}, nil
	}

	h := tok[0]
	if d == Legacy && h >= 'a' && h <= 'z' {
		return Part{}, fmt.Errorf("%q: %w", tok, ErrHemisphere)
	}
	p := Part{Text: tok, Sexagesimal: true}
	sign := 1.
	switch h {
	case 'N', 'n':
		p.Axis = Latitude
	case 'S', 's':
		p.Axis, sign = Latitude, -1
	case 'E', 'e':
		p.Axis = Longitude
	case 'W', 'w':
		p.Axis, sign = Longitude, -1
	default:
		return Part{}, fmt.Errorf("%q: %w", tok, ErrNotCoordinate)
	}

	// deg.min.sec[.frac]
	f := strings.Split(tok[1:], ".")
	if len(f) < 3 || len(f) > 4 {
		return Part{}, fmt.Errorf("%q: %w", tok, ErrNotCoordinate)
	}
	for _, s := range f {
		if s == "" || strings.TrimLeft(s, "0123456789") != "" {
			return Part{}, fmt.Errorf("%q: %w", tok, ErrNotCoordinate)
		}
	}
	deg, _ := strconv.Atoi(f[0])
	mins, _ := strconv.Atoi(f[1])
	sec, _ := strconv.ParseFloat(strings.Join(f[2:], "."), 64)
	p.Value = sign * (float64(deg) + float64(mins)/60 + sec/3600)
	return p, nil
}
