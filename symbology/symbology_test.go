// symbology/symbology_test.go
// Copyright(c) 2022 Matt Pharr, Apache License

package symbology

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/style"
)

const sample = `
SYMBOLOGY
SYMBOLSIZE
Sector:msaw:32768:2.0:0:2:7
Sector:inactive sector background:13158600:3.5:0:0:7
Airports:symbol:16777215:3.0
SYMBOL:0
SYMBOLITEM:MOVETO -3 -3
SYMBOLITEM:LINETO 3 -3
SYMBOLITEM:LINETO 3 3
SYMBOLITEM:LINETO -3 3
SYMBOLITEM:LINETO -3 -3
SYMBOLITEM:MOVETO 5 0
SYMBOLITEM:LINETO -6 0
SYMBOLITEM:MOVETO 0 5
SYMBOLITEM:LINETO 0 -6
SYMBOL:1
SYMBOLITEM:MOVETO -4 3
SYMBOLITEM:LINETO 0 -4
SYMBOLITEM:LINETO 4 3
SYMBOLITEM:LINETO -4 3
SYMBOL:14
SYMBOLITEM:ARC 0 0 2 0 360
SYMBOLITEM:FILLRECT -1 -1 1 1
m_ClipArea:0
END
`

func parse(t *testing.T, text string) (*Symbology, *extract.State) {
	t.Helper()
	st := extract.NewState("Symbology.txt", grammar.Modern, diag.DefaultPolicy, nil, nil)
	s, err := Parse(grammar.Scan(text), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, st
}

func TestItems(t *testing.T) {
	s, st := parse(t, sample)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics:\n%s", st.Sink)
	}

	for _, c := range []struct {
		folder, name string
		expect       Item
	}{
		{"Sector", "msaw", Item{Folder: "Sector", Name: "msaw", RGB: style.RGB{R: 0, G: 128, B: 0}, Size: 2,
			LineStyle: style.Dot, TextAlign: 7, Line: 4}},
		{"Sector", "inactive sector background", Item{Folder: "Sector", Name: "inactive sector background",
			RGB: style.RGB{R: 200, G: 200, B: 200}, Size: 3.5, TextAlign: 7, Line: 5}},
		{"Airports", "symbol", Item{Folder: "Airports", Name: "symbol", RGB: style.RGB{R: 255, G: 255, B: 255},
			Size: 3, Line: 6}},
	} {
		it, ok := s.Item(c.folder, c.name)
		if !ok {
			t.Errorf("%s:%s: not found", c.folder, c.name)
		} else if !reflect.DeepEqual(it, c.expect) {
			t.Errorf("%s:%s: got %+v, expected %+v", c.folder, c.name, it, c.expect)
		}
	}

	if f := s.Folders(); !reflect.DeepEqual(f, []string{"Sector", "Airports"}) {
		t.Errorf("folders: got %v", f)
	}
	if s.ClipArea != 0 {
		t.Errorf("clip area: got %d", s.ClipArea)
	}
}

func TestSymbols(t *testing.T) {
	s, _ := parse(t, sample)
	if len(s.Symbols) != 3 {
		t.Fatalf("got %d symbols, expected 3", len(s.Symbols))
	}

	xy := func(ins []draw.Instruction) [][2]float64 {
		var r [][2]float64
		for _, in := range ins {
			for _, p := range in.Points {
				r = append(r, [2]float64{p.X, p.Y})
			}
		}
		return r
	}

	apt, ok := s.Symbol(Airport)
	if !ok {
		t.Fatalf("no airport symbol")
	}
	expect := [][2]float64{{-3, -3}, {3, -3}, {3, 3}, {-3, 3}, {-3, -3}, {5, 0}, {-6, 0}, {0, 5}, {0, -6}}
	if got := xy(apt.Instructions); !reflect.DeepEqual(got, expect) {
		t.Errorf("airport: got %v, expected %v", got, expect)
	}
	ops := []draw.Opcode{draw.MoveTo, draw.LineTo, draw.LineTo, draw.LineTo, draw.LineTo,
		draw.MoveTo, draw.LineTo, draw.MoveTo, draw.LineTo}
	for i, in := range apt.Instructions {
		if in.Op != ops[i] || in.Convention != draw.Pixel {
			t.Errorf("airport %d: got %s/%s", i, in.Op, in.Convention)
		}
	}

	ndb, _ := s.Symbol(NDB)
	if got := xy(ndb.Instructions); !reflect.DeepEqual(got, [][2]float64{{-4, 3}, {0, -4}, {4, 3}, {-4, 3}}) {
		t.Errorf("ndb: got %v", got)
	}

	dot, _ := s.Symbol(HistoryDot)
	if len(dot.Instructions) != 2 || dot.Instructions[0].Op != draw.Arc ||
		!reflect.DeepEqual(dot.Instructions[0].Angles, []int{0, 0}) ||
		len(dot.Instructions[1].Points) != 4 {
		t.Errorf("history dot: got %v", dot.Instructions)
	}
	if dot.Type.String() != "HistoryDot" || SymbolType(40).String() != "SymbolType(40)" {
		t.Errorf("symbol type names: %s, %s", dot.Type, SymbolType(40))
	}
}

func TestDiagnostics(t *testing.T) {
	text := `SYMBOLOGY
SYMBOLSIZE
Sector:msaw:green:2.0
Sector:msaw:255:2.0:0:9:0
Sector:msaw:255:4.0
SYMBOLITEM:MOVETO 0 0
SYMBOL:99
SYMBOLITEM:MOVETO 0 0
SYMBOL:2
SYMBOLITEM:WIGGLE 0 0
SYMBOLITEM:LINETO 1 1
SYMBOL:2
SYMBOLITEM:LINETO 2 2
END
Sector:late:0:1.0
`
	s, st := parse(t, text)

	type expect struct {
		line int
		kind diag.Kind
		err  error
	}
	expected := []expect{
		{3, diag.Tolerated, diag.ErrEntityTolerated},
		{4, diag.Semantic, style.ErrUnknownStyleToken},
		{5, diag.Semantic, ErrDuplicate},
		{6, diag.Tolerated, diag.ErrEntityTolerated},
		{7, diag.Semantic, ErrUnknownSymbolType},
		{10, diag.Tolerated, diag.ErrEntityTolerated},
		{12, diag.Semantic, ErrDuplicate},
		{15, diag.Tolerated, diag.ErrEntityTolerated},
	}
	d := st.Sink.Diagnostics()
	if len(d) != len(expected) {
		t.Fatalf("got %d diagnostics, expected %d:\n%s", len(d), len(expected), st.Sink)
	}
	for i, e := range expected {
		if d[i].Line != e.line || d[i].Kind != e.kind || !errors.Is(d[i].Err, e.err) {
			t.Errorf("diagnostic %d: got %s, expected line %d %s %v", i, d[i], e.line, e.kind, e.err)
		}
	}

	// Line 3 is skipped and line 4 kept despite its style; line 5
	// replaces it.
	if len(s.Items) != 1 || s.Items[0].Size != 4 {
		t.Errorf("items: got %+v", s.Items)
	}
	vor, ok := s.Symbol(VOR)
	if !ok || len(vor.Instructions) != 1 || vor.Instructions[0].Points[0].X != 2 {
		t.Errorf("VOR: got %+v", vor)
	}
	if len(s.Symbols) != 1 {
		t.Errorf("got %d symbols, expected 1", len(s.Symbols))
	}
}

func TestFraming(t *testing.T) {
	for _, c := range []struct {
		text string
		line int
	}{
		{"", 0},
		{"SYMBOLSIZE\nEND", 1},
		{"SYMBOLOGY\nSector:msaw:0:1\nEND", 2},
		{"SYMBOLOGY\nSYMBOLSIZE\nSector:msaw:0:1", 0},
	} {
		st := extract.NewState("Symbology.txt", grammar.Modern, diag.DefaultPolicy, nil, nil)
		_, err := Parse(grammar.Scan(c.text), st)
		var se *grammar.StructuralError
		if !errors.As(err, &se) || se.Line != c.line {
			t.Errorf("%q: expected StructuralError at line %d, got %v", c.text, c.line, err)
		}
	}
}
