// topsky/topsky_test.go
// Copyright(c) 2022 Matt Pharr, Apache License

package topsky

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/mmp/esfiles/active"
	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/style"
)

const sampleMaps = `
MAP:SYMBOLS
FOLDER:FIXES
COLOR:Active_Map_Type_20
ACTIVE:1

MAP:AOR ALTMUEHL
FOLDER:SECTORLINES
COLOR:Active_Map_Type_20
ASRDATA:CTR,EDDM_APP
STYLE:Dot:1
LAYER:-2
ACTIVE:ID:*:*:IGL:*
ACTIVE:ID:IGL:*:*:*

MAP:EDMO_RNP22
ASRDATA:APP,CTR
ZOOM:9
COLOR:Active_Map_Type_20
ACTIVE:RWY:ARR:EDMO22:DEP:*
`

func parseMaps(t *testing.T, text string, policy diag.Policy) (*MapsFile, *extract.State) {
	t.Helper()
	st := extract.NewState("TopSkyMaps.txt", grammar.Modern, policy, Palette(true), nil)
	mf, err := ParseMaps(grammar.Scan(text), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return mf, st
}

func getMap(t *testing.T, mf *MapsFile, name string) Map {
	t.Helper()
	m, ok := mf.Map(name)
	if !ok {
		t.Fatalf("%s: map not found", name)
	}
	return m
}

func TestMapActive(t *testing.T) {
	mf, st := parseMaps(t, sampleMaps, diag.DefaultPolicy)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics: %s", st.Sink)
	}

	if m := getMap(t, mf, "SYMBOLS"); !reflect.DeepEqual(m.Active, [][]active.Condition{{{Kind: active.Always}}}) {
		t.Errorf("SYMBOLS: active %+v", m.Active)
	}

	m := getMap(t, mf, "AOR ALTMUEHL")
	expectID := []active.IDCondition{
		{Own: active.Wildcard[string](), OwnExcludes: active.Wildcard[string](),
			Online: active.ListOf("IGL"), OnlineExcludes: active.Wildcard[string]()},
		{Own: active.ListOf("IGL"), OwnExcludes: active.Wildcard[string](),
			Online: active.Wildcard[string](), OnlineExcludes: active.Wildcard[string]()},
	}
	if len(m.Active) != 2 {
		t.Fatalf("AOR ALTMUEHL: expected 2 alternatives, got %d", len(m.Active))
	}
	for i, group := range m.Active {
		if len(group) != 1 || group[0].Kind != active.IDMatch || !reflect.DeepEqual(*group[0].ID, expectID[i]) {
			t.Errorf("AOR ALTMUEHL: alternative %d: %+v", i, group)
		}
	}

	m = getMap(t, mf, "EDMO_RNP22")
	if len(m.Active) != 1 || len(m.Active[0]) != 1 || m.Active[0][0].Kind != active.RunwayConfig {
		t.Fatalf("EDMO_RNP22: active %+v", m.Active)
	}
	rc := m.Active[0][0].Runway
	if !reflect.DeepEqual(rc.Arrival, active.ListOf(active.Runway{ICAO: "EDMO", Designator: "22"})) ||
		rc.Departure.Kind != active.Any || rc.ArrivalExcludes.Kind != active.Unset ||
		rc.DepartureExcludes.Kind != active.Unset {
		t.Errorf("EDMO_RNP22: runway condition %+v", rc)
	}
}

func TestMapAttributes(t *testing.T) {
	mf, _ := parseMaps(t, sampleMaps, diag.DefaultPolicy)

	for _, test := range []struct {
		name   string
		asr    active.Set[string]
		folder string
		layer  int
		zoom   float64
	}{
		{name: "SYMBOLS", folder: "FIXES"},
		{name: "AOR ALTMUEHL", asr: active.ListOf("CTR", "EDDM_APP"), folder: "SECTORLINES", layer: -2},
		{name: "EDMO_RNP22", asr: active.ListOf("APP", "CTR"), folder: DefaultFolder, zoom: 9},
	} {
		m := getMap(t, mf, test.name)
		if !reflect.DeepEqual(m.ASRData, test.asr) {
			t.Errorf("%s: ASRDATA %+v, expected %+v", test.name, m.ASRData, test.asr)
		}
		if m.Folder != test.folder || m.Layer != test.layer || m.Zoom != test.zoom {
			t.Errorf("%s: folder %q layer %d zoom %g", test.name, m.Folder, m.Layer, m.Zoom)
		}
		if m.Colour != "Active_Map_Type_20" {
			t.Errorf("%s: colour %q", test.name, m.Colour)
		}
	}

	folders, maps := mf.Folders()
	if !reflect.DeepEqual(folders, []string{"FIXES", "SECTORLINES", DefaultFolder}) ||
		!reflect.DeepEqual(maps["SECTORLINES"], []string{"AOR ALTMUEHL"}) {
		t.Errorf("folders %v %v", folders, maps)
	}
}

func TestMapGeometry(t *testing.T) {
	mf, st := parseMaps(t, `COLORDEF:Runway_Lines:255:0:0
MAP:Lines
COLOR:Runway_Lines
LINE:N048.00.00.000:E011.00.00.000:N048.10.00.000:E011.00.00.000
LINE:N048.10.00.000:E011.00.00.000:N048.10.00.000:E011.10.00.000
LINE:ARMUT:VEMUT
STYLE:Dash:2
LINE:VEMUT:ERNAS
COORD:N048.00.00.000:E011.00.00.000
COORD:N048.10.00.000:E011.00.00.000
COORD:N048.10.00.000:E011.10.00.000
COORDPOLY:50
COORD:N048.00.00.000:E011.00.00.000
COORD:ERNAS
COORDLINE
CIRCLE:N048.00.00.000:E011.00.00.000:5:10
CIRCLE:ARMUT:2.5
TEXT:N048.00.00.000:E011.00.00.000:Tower: 118.7
TEXTALIGN:L:T
SYMBOL:VOR:ARMUT:ARMUT:5:-5
`, diag.DefaultPolicy)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics: %s", st.Sink)
	}
	if len(mf.Colours) != 1 || mf.Colours[0].RGB != (style.RGB{R: 255}) {
		t.Errorf("COLORDEF: %+v", mf.Colours)
	}

	m := getMap(t, mf, "Lines")
	ops := []draw.Opcode{draw.MoveTo, draw.LineTo, draw.LineTo, draw.MoveTo, draw.LineTo, draw.MoveTo,
		draw.LineTo, draw.Polygon, draw.MoveTo, draw.LineTo, draw.EllipseCircle, draw.EllipseCircle}
	if len(m.Instructions) != len(ops) {
		t.Fatalf("expected %d instructions, got %d: %v", len(ops), len(m.Instructions), m.Instructions)
	}
	for i, in := range m.Instructions {
		if in.Op != ops[i] || in.Convention != draw.Geographic {
			t.Errorf("instruction %d: got %s, expected %s", i, in, ops[i])
		}
	}

	end := m.Instructions[2].Points[0].Location
	if !end.Resolved || math.Abs(end.Position.Lat-(48+1./6)) > 1e-9 || math.Abs(end.Position.Lon-(11+1./6)) > 1e-9 {
		t.Errorf("chained line end %v", end)
	}
	if l := m.Instructions[4].Points[0].Location; l.Name != "VEMUT" || l.Resolved {
		t.Errorf("designator endpoint %+v", l)
	}
	if s := m.Instructions[0].Style; s.RGB != (style.RGB{R: 255}) || s.LineStyle != style.DefaultLineStyle {
		t.Errorf("first style %+v", s)
	}
	if s := m.Instructions[5].Style; s.LineStyle != (style.LineStyle{Kind: style.Dash, Width: 2}) {
		t.Errorf("restyled line %+v", s)
	}
	if poly := m.Instructions[7]; len(poly.Points) != 3 ||
		poly.Style.Fill != (style.Fill{Kind: style.FillPercent, Percent: 50}) {
		t.Errorf("polygon %s fill %+v", poly, poly.Style.Fill)
	}
	if c := m.Instructions[10]; !reflect.DeepEqual(c.Radii, []float64{5}) {
		t.Errorf("circle radii %v", c.Radii)
	}
	if c := m.Instructions[11]; c.Points[0].Location.Name != "ARMUT" || !reflect.DeepEqual(c.Radii, []float64{2.5}) {
		t.Errorf("circle around fix %s", c)
	}

	if len(m.Texts) != 1 || m.Texts[0].Content != "Tower: 118.7" ||
		m.Texts[0].Font.Alignment != style.DefaultAlignment || m.Texts[0].Line != 18 {
		t.Errorf("texts %+v", m.Texts)
	}
	if len(m.Symbols) != 1 {
		t.Fatalf("expected 1 symbol, got %d", len(m.Symbols))
	}
	sym := m.Symbols[0]
	if sym.Name != "VOR" || sym.Location != (coord.Location{Name: "ARMUT"}) ||
		!reflect.DeepEqual(sym.Label, &Label{Text: "ARMUT", X: 5, Y: -5}) ||
		sym.Font.Alignment != (style.Alignment{Horizontal: style.AlignLeft, Vertical: style.AlignTop}) {
		t.Errorf("symbol %+v", sym)
	}
}

const brokenMaps = `MAP:NoColour
LINE:A:B
MAP:Dup
COLOR:Undefined_Colour
MAP:Dup
COLOR:Map_1
ACTIVE:ID:*:*
FOO:bar
STYLE:Wavy
LINE:N048.00.00.000:N011.00.00.000:N048.10.00.000:E011.00.00.000
COORD:N048.00.00.000:E011.00.00.000
COORDPOLY
`

func TestMapDiagnostics(t *testing.T) {
	mf, st := parseMaps(t, brokenMaps, diag.DefaultPolicy)

	type expect struct {
		line    int
		kind    diag.Kind
		err     error
		context string
	}
	expected := []expect{
		{1, diag.Semantic, ErrNoColour, "MAP NoColour"},
		{4, diag.Semantic, style.ErrUndefinedColour, "MAP Dup"},
		{7, diag.Tolerated, diag.ErrEntityTolerated, "MAP Dup_2"},
		{8, diag.Tolerated, diag.ErrEntityTolerated, "MAP Dup_2"},
		{9, diag.Semantic, style.ErrUnknownStyleToken, "MAP Dup_2"},
		{10, diag.Semantic, coord.ErrAmbiguousCoordinate, "MAP Dup_2"},
		{12, diag.Tolerated, diag.ErrEntityTolerated, "MAP Dup_2"},
	}
	d := st.Sink.Diagnostics()
	if len(d) != len(expected) {
		t.Fatalf("expected %d diagnostics, got %d:\n%s", len(expected), len(d), st.Sink)
	}
	for i, e := range expected {
		if d[i].Line != e.line || d[i].Kind != e.kind || d[i].Context != e.context {
			t.Errorf("diagnostic %d: got %d/%s/%q, expected %d/%s/%q", i, d[i].Line, d[i].Kind, d[i].Context,
				e.line, e.kind, e.context)
		}
		if !errors.Is(d[i].Err, e.err) {
			t.Errorf("diagnostic %d: %v is not %v", i, d[i].Err, e.err)
		}
	}

	if len(mf.Maps) != 2 || mf.Maps[0].Name != "Dup" || mf.Maps[1].Name != "Dup_2" {
		t.Fatalf("maps %+v", mf.Maps)
	}
	if n := len(mf.Maps[1].Instructions); n != 0 {
		t.Errorf("Dup_2: expected no instructions, got %d", n)
	}

	mf, _ = parseMaps(t, brokenMaps, diag.Strict)
	if len(mf.Maps) != 0 {
		t.Errorf("strict: expected every map to be dropped, got %d", len(mf.Maps))
	}
}

func TestMapSchedule(t *testing.T) {
	st := extract.NewState("TopSkyMaps.txt", grammar.Modern, diag.DefaultPolicy, nil, nil)
	mf, err := ParseMaps(grammar.Scan(`MAP:Night
COLOR:Map_1
ACTIVE:1201:0131:0:2200:0600
ANDACTIVE:RWY:ARR:*:DEP:EDDM26L,EDDM26R
ACTIVE:NOTAM:EDDM:NIGHT
`), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mf.Maps) != 1 {
		t.Fatalf("expected 1 map, got %d: %s", len(mf.Maps), st.Sink)
	}
	a := mf.Maps[0].Active
	if len(a) != 2 || len(a[0]) != 2 || len(a[1]) != 1 {
		t.Fatalf("active groups %+v", a)
	}
	if a[0][0].Kind != active.Scheduled || a[0][0].Schedule.String() != "1201:0131:0:2200:0600" ||
		a[0][1].Kind != active.RunwayConfig || a[1][0].Kind != active.NotamMatch {
		t.Errorf("active groups %+v", a)
	}

	_, err = ParseMaps(grammar.Scan("MAP:Bad\nCOLOR:Map_1\nACTIVE:20241301:20241231:0:0000:2400\n"),
		extract.NewState("TopSkyMaps.txt", grammar.Modern, diag.DefaultPolicy, nil, nil))
	var se *grammar.StructuralError
	if !errors.As(err, &se) || se.Line != 3 {
		t.Errorf("expected a structural error at line 3, got %v", err)
	}
}

func parseSymbols(t *testing.T, text string) (*SymbolsFile, *extract.State) {
	t.Helper()
	st := extract.NewState("TopSkySymbols.txt", grammar.Modern, diag.DefaultPolicy, nil, nil)
	sf, err := ParseSymbols(grammar.Scan(text), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sf, st
}

func TestSymbols(t *testing.T) {
	sf, st := parseSymbols(t, `SYMBOL:AIRPORT
MOVETO:0:0
LINETO:1:1
POLYGON:0:0:1:0:1:1
`)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics: %s", st.Sink)
	}
	sym, ok := sf.Symbol("AIRPORT")
	if !ok || len(sym.Instructions) != 3 {
		t.Fatalf("AIRPORT: %+v", sf.Symbols)
	}
	expected := [][]draw.Point{
		{draw.XY(0, 0)},
		{draw.XY(1, 1)},
		{draw.XY(0, 0), draw.XY(1, 0), draw.XY(1, 1)},
	}
	for i, in := range sym.Instructions {
		if in.Convention != draw.Pixel || !reflect.DeepEqual(in.Points, expected[i]) || in.Line != i+2 {
			t.Errorf("instruction %d: %s", i, in)
		}
	}
}

func TestSymbolErrors(t *testing.T) {
	sf, st := parseSymbols(t, `MOVETO:0:0
SYMBOL:NDB
ARC:0:0:3:0:360
FILLARC:0:0:1:0:360
SETPIXEL:2:2
FOO:1:1
LINETO:1
SYMBOL:NDB
MOVETO:-1:-1
`)
	d := st.Sink.Diagnostics()
	lines := []int{1, 6, 7, 8}
	if len(d) != len(lines) {
		t.Fatalf("expected %d diagnostics, got %d:\n%s", len(lines), len(d), st.Sink)
	}
	for i, l := range lines {
		if d[i].Line != l {
			t.Errorf("diagnostic %d at line %d, expected %d", i, d[i].Line, l)
		}
	}
	if !errors.Is(d[3].Err, ErrDuplicate) || d[3].Action != diag.Keep {
		t.Errorf("redefinition: %v", d[3])
	}

	if len(sf.Symbols) != 1 || len(sf.Symbols[0].Instructions) != 1 ||
		sf.Symbols[0].Instructions[0].Points[0] != draw.XY(-1, -1) {
		t.Errorf("expected the last definition of NDB, got %+v", sf.Symbols)
	}
}

func TestMapsFileSymbolDefs(t *testing.T) {
	mf, st := parseMaps(t, `SYMBOLDEF:VOR
MOVETO:-3:0
ARC:0:0:3:0:360
MAP:Fixes
COLOR:Map_Symbol
SYMBOL:VOR:N048.00.00.000:E011.00.00.000
OVERRIDE_SCT_MAP:EDMM\Sectors
OVERRIDE_SCT_MAP:Geo
LINESTYLE:Fancy:Solid:0:4:2
STYLE:Fancy:2
LINE:N048.00.00.000:E011.00.00.000:N048.10.00.000:E011.00.00.000
`, diag.DefaultPolicy)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics: %s", st.Sink)
	}

	sym, ok := mf.Symbol("VOR")
	if !ok || len(sym.Instructions) != 2 || sym.Instructions[1].Op != draw.Arc ||
		!reflect.DeepEqual(sym.Instructions[1].Angles, []int{0, 0}) {
		t.Errorf("VOR symbol %+v", sym)
	}
	if !reflect.DeepEqual(mf.Overrides, []OverrideSct{{Folder: "EDMM", Name: "Sectors", Line: 7}, {Name: "Geo", Line: 8}}) {
		t.Errorf("overrides %+v", mf.Overrides)
	}
	if len(mf.LineStyles) != 1 || !reflect.DeepEqual(mf.LineStyles[0].Dashes, []int{4, 2}) {
		t.Errorf("line styles %+v", mf.LineStyles)
	}

	m := getMap(t, mf, "Fixes")
	if len(m.Symbols) != 1 || !m.Symbols[0].Location.Resolved {
		t.Errorf("map symbols %+v", m.Symbols)
	}
	if len(m.Instructions) != 2 ||
		m.Instructions[0].Style.LineStyle != (style.LineStyle{Kind: style.Custom, Name: "FANCY", Width: 2}) {
		t.Errorf("custom line style: %v", m.Instructions)
	}
}

func TestSettings(t *testing.T) {
	st := extract.NewState("TopSkySettings.txt", grammar.Modern, diag.DefaultPolicy, nil, nil)
	s, err := ParseSettings(grammar.Scan(`Setup_COOPANS=0
Color_Active_Map_Type_16=160,160,160
Color_Active_Map_Type_18=0,160,0 //MVA - light gray
Color_Bad=1,2
Maps_FontSize=14
NoEquals
Color_Active_Map_Type_16=1,2,3
`), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := st.Sink.Diagnostics()
	if len(d) != 2 || d[0].Line != 4 || d[1].Line != 6 {
		t.Errorf("diagnostics:\n%s", st.Sink)
	}

	var keys []string
	for _, e := range s.Entries {
		keys = append(keys, e.Key)
	}
	if !reflect.DeepEqual(keys, []string{"Setup_COOPANS", "Color_Active_Map_Type_16", "Color_Active_Map_Type_18",
		"Color_Bad", "Maps_FontSize"}) {
		t.Errorf("keys %v", keys)
	}
	if v, _ := s.Get("Color_Active_Map_Type_16"); v != "1,2,3" {
		t.Errorf("repeated key: %q", v)
	}
	if s.Coopans() {
		t.Errorf("expected the standard setup")
	}
	if f := s.Number("Maps_FontSize", 12); f != 14 {
		t.Errorf("Maps_FontSize %g", f)
	}
	if f := s.Number("Maps_Layer", 1); f != 1 {
		t.Errorf("default Maps_Layer %g", f)
	}

	table := s.Table()
	for _, test := range []struct {
		name string
		rgb  style.RGB
	}{
		{"Active_Map_Type_16", style.RGB{R: 1, G: 2, B: 3}},
		{"Active_Map_Type_18", style.RGB{G: 160}},
		{"Background", style.RGB{R: 162, G: 163, B: 156}},
		{"FPLSEP_Tool_1", style.RGB{R: 255, G: 170, B: 46}},
	} {
		if c, err := table.ResolveRGB(test.name); err != nil || c != test.rgb {
			t.Errorf("%s: got %v (%v), expected %v", test.name, c, err, test.rgb)
		}
	}
	if _, err := table.ResolveRGB("CARD_Mark_All"); !errors.Is(err, style.ErrUndefinedColour) {
		t.Errorf("CARD_Mark_All should only exist in the COOPANS setup")
	}
	if v, ok := s.Ordered().Get("Maps_FontSize"); !ok || v != "14" {
		t.Errorf("ordered settings: %v", v)
	}
}

func TestDefaultColour(t *testing.T) {
	for _, test := range []struct {
		name    string
		coopans bool
		rgb     style.RGB
		ok      bool
	}{
		{"Active_Map", false, style.RGB{R: 70, G: 90, B: 135}, true},
		{"Active_Map", true, style.RGB{R: 198, G: 174, B: 58}, true},
		{"CARD_Mark_All", false, style.RGB{}, false},
		{"CARD_Mark_All", true, style.RGB{R: 255, G: 125, B: 125}, true},
		{"FPLSEP_Tool_1", true, style.RGB{}, false},
		{"No_Such_Colour", false, style.RGB{}, false},
	} {
		rgb, ok := DefaultColour(test.name, test.coopans)
		if rgb != test.rgb || ok != test.ok {
			t.Errorf("%s/%v: got %v %v, expected %v %v", test.name, test.coopans, rgb, ok, test.rgb, test.ok)
		}
	}
}
