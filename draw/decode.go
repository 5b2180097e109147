// draw/decode.go
// Copyright(c) 2022 Matt Pharr, Apache License

package draw

import (
	"fmt"
	"math"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/grammar"
)

// Decoder turns opcode/operand sequences into Instructions.
type Decoder struct {
	Convention Convention
	// Memo decodes geographic coordinate parts. If nil, a private one
	// in the Modern dialect is created on first use.
	Memo *coord.Memo
	// Lookup, if non-nil, resolves designators used in place of
	// geographic coordinates.
	Lookup func(name string) (coord.Position, bool)
}

// Decode decodes a single instruction using a throwaway Decoder.
func Decode(op string, operands []string, conv Convention) (Instruction, error) {
	d := Decoder{Convention: conv}
	return d.Decode(op, operands)
}

// shape gives the number of points an opcode takes followed by the
// accepted counts of scalar operands; a negative point count means "at
// least that many, and nothing else".
var shapes = [...]struct {
	points  int
	scalars []int
}{
	MoveTo:        {1, []int{0}},
	LineTo:        {1, []int{0}},
	Line:          {2, []int{0}},
	SetPixel:      {1, []int{0}},
	Arc:           {1, []int{3, 4}},
	FillArc:       {1, []int{3, 4}},
	EllipseCircle: {1, []int{1}},
	Ellipse:       {1, []int{2}},
	Polygon:       {-3, nil},
	FillRect:      {2, []int{0}},
}

// Decode decodes op with the given operands, which are the fields that
// followed it on the line.
func (d *Decoder) Decode(op string, operands []string) (Instruction, error) {
	code, err := ParseOpcode(op)
	if err != nil {
		return Instruction{}, err
	}
	in := Instruction{Op: code, Convention: d.Convention}
	shape := shapes[code]

	rest := operands
	if shape.points < 0 {
		for len(rest) > 0 {
			var p Point
			if p, rest, err = d.point(rest); err != nil {
				return Instruction{}, fmt.Errorf("%s: %w", code, err)
			}
			in.Points = append(in.Points, p)
		}
		if len(in.Points) < -shape.points {
			return Instruction{}, fmt.Errorf("%s: %d points, need at least %d: %w", code, len(in.Points),
				-shape.points, ErrOperands)
		}
		return in, nil
	}

	for range shape.points {
		var p Point
		if p, rest, err = d.point(rest); err != nil {
			return Instruction{}, fmt.Errorf("%s: %w", code, err)
		}
		in.Points = append(in.Points, p)
	}

	n := len(rest)
	ok := false
	for _, s := range shape.scalars {
		ok = ok || s == n
	}
	if !ok {
		return Instruction{}, fmt.Errorf("%s: %d trailing operands: %w", code, n, ErrOperands)
	}

	switch code {
	case Arc, FillArc:
		// radius:start:end or xradius:yradius:start:end
		radii := rest[:n-2]
		for _, r := range radii {
			v, err := grammar.ParseNumber[float64](r)
			if err != nil {
				return Instruction{}, fmt.Errorf("%s: radius %q: %w", code, r, ErrOperands)
			}
			in.Radii = append(in.Radii, v)
		}
		for _, a := range rest[n-2:] {
			v, err := parseAngle(a)
			if err != nil {
				return Instruction{}, fmt.Errorf("%s: %w", code, err)
			}
			in.Angles = append(in.Angles, v)
		}
	case EllipseCircle, Ellipse:
		for _, r := range rest {
			v, err := grammar.ParseNumber[float64](r)
			if err != nil {
				return Instruction{}, fmt.Errorf("%s: radius %q: %w", code, r, ErrOperands)
			}
			in.Radii = append(in.Radii, v)
		}
	case FillRect:
		in.Points, err = rectangle(in.Points[0], in.Points[1], d.Convention)
		if err != nil {
			return Instruction{}, fmt.Errorf("%s: %w", code, err)
		}
	}
	return in, nil
}

// DecodeText decodes a whole rule such as "MOVETO:0:0" or "LINETO -3 3",
// where sep separates the opcode and its operands.
func (d *Decoder) DecodeText(text string, sep grammar.Delims) (Instruction, error) {
	c := grammar.NewCursor(text, d.dialect())
	op, ok := c.Text(sep)
	if !ok {
		return Instruction{}, fmt.Errorf("%q: missing opcode: %w", text, ErrUnknownOpcode)
	}
	if sep != grammar.Space && !c.Done() {
		// step over the separator
		c.Reset(c.Mark() + 1)
	}
	return d.Decode(op, c.Fields(sep))
}

func (d *Decoder) dialect() grammar.Dialect {
	if d.Memo != nil {
		return d.Memo.Dialect()
	}
	return grammar.Modern
}

func (d *Decoder) memo() *coord.Memo {
	if d.Memo == nil {
		d.Memo = coord.NewMemo(grammar.Modern, 256)
	}
	return d.Memo
}

// point consumes one point from the front of ops.
func (d *Decoder) point(ops []string) (Point, []string, error) {
	if d.Convention == Pixel {
		if len(ops) < 2 {
			return Point{}, nil, fmt.Errorf("incomplete point: %w", ErrOperands)
		}
		x, errx := grammar.ParseNumber[float64](ops[0])
		y, erry := grammar.ParseNumber[float64](ops[1])
		if errx != nil || erry != nil {
			return Point{}, nil, fmt.Errorf("point %q %q: %w", ops[0], ops[1], ErrOperands)
		}
		return XY(x, y), ops[2:], nil
	}

	if len(ops) == 0 {
		return Point{}, nil, fmt.Errorf("missing point: %w", ErrOperands)
	}
	m := d.memo()
	if len(ops) >= 2 && m.IsPart(ops[0]) && m.IsPart(ops[1]) {
		p, err := m.Position(ops[0], ops[1])
		if err != nil {
			return Point{}, nil, err
		}
		return Point{Location: coord.At(p)}, ops[2:], nil
	}
	if ops[0] == "" {
		return Point{}, nil, fmt.Errorf("empty point: %w", ErrOperands)
	}
	loc := coord.Location{Name: ops[0]}
	if d.Lookup != nil {
		loc.Position, loc.Resolved = d.Lookup(ops[0])
	}
	return Point{Location: loc}, ops[1:], nil
}

func parseAngle(s string) (int, error) {
	if v, err := grammar.ParseNumber[int](s); err == nil {
		return normAngle(v), nil
	}
	v, err := grammar.ParseNumber[float64](s)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("angle %q: %w", s, ErrOperands)
	}
	return normAngle(int(v)), nil
}

// rectangle returns the four corners of the axis-aligned rectangle with
// opposite corners a and b.
func rectangle(a, b Point, conv Convention) ([]Point, error) {
	if conv == Pixel {
		return []Point{XY(a.X, a.Y), XY(b.X, a.Y), XY(b.X, b.Y), XY(a.X, b.Y)}, nil
	}
	if !a.Location.Resolved || !b.Location.Resolved {
		return nil, fmt.Errorf("rectangle corners must be positions: %w", ErrOperands)
	}
	pa, pb := a.Location.Position, b.Location.Position
	at := func(lat, lon float64) Point {
		return Point{Location: coord.At(coord.Position{Lat: lat, Lon: lon})}
	}
	return []Point{at(pa.Lat, pa.Lon), at(pa.Lat, pb.Lon), at(pb.Lat, pb.Lon), at(pb.Lat, pa.Lon)}, nil
}
