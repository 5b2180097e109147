// draw/draw_test.go
// Copyright(c) 2022 Matt Pharr, Apache License

package draw

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/grammar"
)

func TestSymbolSequence(t *testing.T) {
	var d Decoder
	var got []Instruction
	for _, rule := range []string{"MOVETO:0:0", "LINETO:1:1", "POLYGON:0:0:1:0:1:1"} {
		in, err := d.DecodeText(rule, grammar.Colon)
		if err != nil {
			t.Fatalf("%s: %v", rule, err)
		}
		got = append(got, in)
	}

	expect := []Instruction{
		{Op: MoveTo, Points: []Point{XY(0, 0)}},
		{Op: LineTo, Points: []Point{XY(1, 1)}},
		{Op: Polygon, Points: []Point{XY(0, 0), XY(1, 0), XY(1, 1)}},
	}
	if !reflect.DeepEqual(got, expect) {
		t.Errorf("got %v, expected %v", got, expect)
	}
}

func TestSpaceSeparated(t *testing.T) {
	d := Decoder{Convention: Pixel}
	for _, c := range []struct {
		text   string
		op     Opcode
		radii  []float64
		angles []int
		points int
	}{
		{"MOVETO -3 -3", MoveTo, nil, nil, 1},
		{"ARC 0 0 5 0 360", Arc, []float64{5}, []int{0, 0}, 1},
		{"ARC 0 0 5 3 -90 450", Arc, []float64{5, 3}, []int{-90, 90}, 1},
		{"FILLARC 1 1 2.5 0 180", FillArc, []float64{2.5}, []int{0, 180}, 1},
		{"ELLIPSE_CIRCLE 0 0 4", EllipseCircle, []float64{4}, nil, 1},
		{"ELLIPSE 0 0 4 2", Ellipse, []float64{4, 2}, nil, 1},
		{"FILLRECT -1 -1 1 1", FillRect, nil, nil, 4},
		{"setpixel 0 0", SetPixel, nil, nil, 1},
	} {
		in, err := d.DecodeText(c.text, grammar.Space)
		if err != nil {
			t.Errorf("%s: %v", c.text, err)
			continue
		}
		if in.Op != c.op || len(in.Points) != c.points {
			t.Errorf("%s: got %s with %d points", c.text, in.Op, len(in.Points))
		}
		if !reflect.DeepEqual(in.Radii, c.radii) || !reflect.DeepEqual(in.Angles, c.angles) {
			t.Errorf("%s: got radii %v angles %v", c.text, in.Radii, in.Angles)
		}
	}

	in, _ := d.DecodeText("FILLRECT -1 -2 3 4", grammar.Space)
	expect := []Point{XY(-1, -2), XY(3, -2), XY(3, 4), XY(-1, 4)}
	if !reflect.DeepEqual(in.Points, expect) {
		t.Errorf("rectangle corners %v", in.Points)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, c := range []struct {
		op       string
		operands []string
		err      error
	}{
		{"CURVETO", []string{"0", "0"}, ErrUnknownOpcode},
		{"MOVETO", []string{"0"}, ErrOperands},
		{"MOVETO", []string{"0", "x"}, ErrOperands},
		{"LINETO", []string{"0", "0", "1"}, ErrOperands},
		{"POLYGON", []string{"0", "0", "1", "1"}, ErrOperands},
		{"ARC", []string{"0", "0", "5", "0"}, ErrOperands},
		{"ARC", []string{"0", "0", "5", "north", "90"}, ErrOperands},
	} {
		if _, err := Decode(c.op, c.operands, Pixel); !errors.Is(err, c.err) {
			t.Errorf("%s %v: got %v, expected %v", c.op, c.operands, err, c.err)
		}
	}
}

func TestGeographic(t *testing.T) {
	fixes := map[string]coord.Position{"MIQ": {Lat: 48.570225, Lon: 11.597502777777779}}
	d := Decoder{
		Convention: Geographic,
		Memo:       coord.NewMemo(grammar.Modern, 0),
		Lookup: func(name string) (coord.Position, bool) {
			p, ok := fixes[name]
			return p, ok
		},
	}

	in, err := d.Decode("LINE", []string{"N048.00.00.000", "E011.30.00.000", "MIQ"})
	if err != nil {
		t.Fatal(err)
	}
	if in.Convention != Geographic || len(in.Points) != 2 {
		t.Fatalf("got %+v", in)
	}
	if p := in.Points[0].Location.Position; math.Abs(p.Lat-48) > 1e-9 || math.Abs(p.Lon-11.5) > 1e-9 {
		t.Errorf("first point %v", p)
	}
	if l := in.Points[1].Location; l.Name != "MIQ" || !l.Resolved {
		t.Errorf("designator not resolved: %+v", l)
	}
	if len(in.Positions()) != 2 {
		t.Errorf("expected two positions")
	}

	// Unknown designators are kept by name.
	in, err = d.Decode("ARC", []string{"NUB", "5", "0", "90"})
	if err != nil {
		t.Fatal(err)
	}
	if l := in.Points[0].Location; l.Name != "NUB" || l.Resolved {
		t.Errorf("got %+v", l)
	}
	if len(in.Positions()) != 0 || !reflect.DeepEqual(in.Radii, []float64{5}) {
		t.Errorf("got %+v", in)
	}

	// Both parts of a coordinate on the same axis.
	if _, err := d.Decode("MOVETO", []string{"N048.00.00.000", "N011.00.00.000"}); !errors.Is(err, coord.ErrAmbiguousCoordinate) {
		t.Errorf("got %v", err)
	}
}

func TestParseAngle(t *testing.T) {
	for _, c := range []struct {
		s      string
		expect int
	}{
		{"90", 90},
		{"360", 0},
		{"450", 90},
		{"-30", -30},
		{"725.5", 5},
	} {
		if a, err := parseAngle(c.s); err != nil {
			t.Errorf("%s: %v", c.s, err)
		} else if a != c.expect {
			t.Errorf("%s: got %d, expected %d", c.s, a, c.expect)
		}
	}
	if _, err := parseAngle("north"); !errors.Is(err, ErrOperands) {
		t.Errorf("expected ErrOperands, got %v", err)
	}
}
