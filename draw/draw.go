// draw/draw.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package draw decodes the small vector instruction set shared by symbol
// definitions and map layers into an ordered list of primitives. It does
// not render anything; points are kept in whichever coordinate
// convention the defining file uses.
package draw

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/style"

)

var (
	ErrUnknownOpcode = errors.New("unknown drawing opcode")
	ErrOperands      = errors.New("bad operands")
)

type Opcode int

const (
	MoveTo Opcode = iota
	LineTo
	Line
	SetPixel
	Arc
	FillArc
	EllipseCircle
	Ellipse
	Polygon
	FillRect
)

var opcodeNames = [...]string{"MOVETO", "LINETO", "LINE", "SETPIXEL", "ARC", "FILLARC", "ELLIPSE_CIRCLE",
	"ELLIPSE", "POLYGON", "FILLRECT"}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeNames[op]
}

// ParseOpcode matches an opcode name case-insensitively.
func ParseOpcode(s string) (Opcode, error) {
	for i, name := range opcodeNames {
		if strings.EqualFold(s, name) {
			return Opcode(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownOpcode)
}

// Filled reports whether the primitive encloses an area.
func (op Opcode) Filled() bool {
	return op == FillArc || op == EllipseCircle || op == Ellipse || op == Polygon || op == FillRect
}

// Convention is the coordinate space an instruction's points are given in.
type Convention int

const (
	// Pixel points are offsets in screen pixels from the symbol's origin.
	Pixel Convention = iota
	// Geographic points are positions or designators of previously
	// declared fixes.
	Geographic
)

func (c Convention) String() string {
	if c == Pixel {
		return "pixel"
	}
	return "geographic"
}

// Point is either a pixel offset or a geographic location, depending on
// the owning instruction's Convention.
type Point struct {
	X, Y     float64        `json:",omitempty" msgpack:",omitempty"`
	Location coord.Location `json:",omitempty" msgpack:",omitempty"`
}

func XY(x, y float64) Point { return Point{X: x, Y: y} }

// Style is the colour, line style and fill in effect where a map
// instruction was declared.
type Style struct {
	Colour    string
	RGB       style.RGB
	LineStyle style.LineStyle
	Fill      style.Fill `json:",omitempty" msgpack:",omitempty"`
}

// Instruction is one decoded drawing primitive. Radii are in pixels for
// symbols and nautical miles for map geometry. Angles are degrees in
// (-360, 360); equal start and end angles describe a full circle.
type Instruction struct {
	Op         Opcode
	Convention Convention
	Points     []Point
	Radii      []float64 `json:",omitempty" msgpack:",omitempty"`
	Angles     []int     `json:",omitempty" msgpack:",omitempty"`
	Style      *Style    `json:",omitempty" msgpack:",omitempty"`
	Line       int       `json:",omitempty" msgpack:",omitempty"`
}

// Positions returns the resolved geographic positions of the
// instruction's points, skipping any unresolved designators.
func (in Instruction) Positions() []coord.Position {
	if in.Convention != Geographic {
		return nil
	}
	var p []coord.Position
	for _, pt := range in.Points {
		if pt.Location.Resolved {
			p = append(p, pt.Location.Position)
		}
	}
	return p
}

func (in Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	for _, p := range in.Points {
		if in.Convention == Pixel {
			fmt.Fprintf(&b, " (%g,%g)", p.X, p.Y)
		} else {
			b.WriteString(" (" + p.Location.String() + ")")
		}
	}
	for _, r := range in.Radii {
		fmt.Fprintf(&b, " r=%g", r)
	}
	if len(in.Angles) == 2 {
		fmt.Fprintf(&b, " %d..%d", in.Angles[0], in.Angles[1])
	}
	return b.String()
}

// Symbol is a named, ordered list of pixel-space instructions.
type Symbol struct {
	Name         string
	Instructions []Instruction
}

func normAngle(a int) int {
	return a % 360
}
