// asr/asr_test.go
// Copyright(c) 2022 Matt Pharr, Apache License

package asr

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

const sample = `DisplayTypeName:Standard ES radar screen
DisplayTypeNeedRadarContent:1
DisplayTypeGeoReferenced:1
SECTORFILE:
SECTORTITLE:
Airports:EDDM:symbol
Airports:EDDM:name
Fixes:ROKIL:name
Fixes:ROKIL:symbol
Runways:EDDM 08R-26L:centerline
Geo:EDDM TWY:
Free Text:EDDM Gates\A1:freetext
SHOWC:1
SHOWSB:0
BELOW:0
ABOVE:0
LEADER:3
SHOWLEADER:0
TURNLEADER:0
HISTORY_DOTS:0
SIMULATION_MODE:1
DISABLEPANNING:0
DISABLEZOOMING:0
DISPLAYROTATION:0.00000
TAGFAMILY:iCAS2-APP
WINDOWAREA:47.687116:9.936633:49.020449:13.635539
PLUGIN:EsCenterLines:Active:2
PLUGIN:TopSky plugin:ShowMapData:APP,EDDM_APP
`

func parse(t *testing.T, text string) (*Settings, *extract.State) {
	t.Helper()
	st := extract.NewState("EDDM_APP.asr", grammar.Modern, diag.DefaultPolicy, nil, nil)
	s, err := Parse(grammar.Scan(text), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, st
}

func TestSettings(t *testing.T) {
	s, st := parse(t, sample)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics:\n%s", st.Sink)
	}

	if s.DisplayType != Radar || !s.NeedRadarContent || !s.GeoReferenced {
		t.Errorf("display type: got %+v", s)
	}
	if s.SectorFile != "" || s.SectorTitle != "" {
		t.Errorf("sector file: got %q %q", s.SectorFile, s.SectorTitle)
	}
	if !s.ShowC || s.ShowStandby || s.Below != 0 || s.Above != 0 {
		t.Errorf("filters: got %+v", s)
	}
	if s.Leader != (Leader{Length: 3}) || s.ShowLeader || s.TurnLeader {
		t.Errorf("leader: got %s", s.Leader)
	}
	if s.HistoryDots != 0 || s.SimulationMode != 1 || s.SimulationMode.Ground() {
		t.Errorf("history/simulation: got %d %d", s.HistoryDots, s.SimulationMode)
	}
	if s.DisablePanning || s.DisableZooming || s.DisplayRotation != 0 {
		t.Errorf("panning/zooming/rotation: got %+v", s)
	}
	if s.TagFamily != "iCAS2-APP" {
		t.Errorf("tag family: got %q", s.TagFamily)
	}

	expect := [2]coord.Position{{Lat: 47.687116, Lon: 9.936633}, {Lat: 49.020449, Lon: 13.635539}}
	for i := range expect {
		if math.Abs(s.WindowArea[i].Lat-expect[i].Lat) > 1e-9 || math.Abs(s.WindowArea[i].Lon-expect[i].Lon) > 1e-9 {
			t.Errorf("window area %d: got %v, expected %v", i, s.WindowArea[i], expect[i])
		}
	}

	if v, ok := s.Plugin("TopSky plugin", "ShowMapData"); !ok || v != "APP,EDDM_APP" {
		t.Errorf("TopSky plugin: got %q %v", v, ok)
	}
	if v, ok := s.Plugin("EsCenterLines", "Active"); !ok || v != "2" {
		t.Errorf("EsCenterLines: got %q %v", v, ok)
	}

	if a := s.Shown("fixes", "ROKIL"); !reflect.DeepEqual(a, []string{"name", "symbol"}) {
		t.Errorf("ROKIL: got %v", a)
	}
	if a := s.Shown("Geo", "EDDM TWY"); !reflect.DeepEqual(a, []string{""}) {
		t.Errorf("EDDM TWY: got %v", a)
	}
	if a := s.Shown("Free Text", `EDDM Gates\A1`); len(a) != 1 {
		t.Errorf("free text: got %v", a)
	}
	if len(s.Items) != 7 {
		t.Errorf("got %d items, expected 7", len(s.Items))
	}
}

func TestDefaults(t *testing.T) {
	s, _ := parse(t, "DisplayTypeName:Ground Radar display\nLEADER:-2\nSIMULATION_MODE:4\n")
	if s.DisplayType != GroundRadar || s.DisplayTypeName != GroundDisplayName {
		t.Errorf("display type: got %s %q", s.DisplayType, s.DisplayTypeName)
	}
	if s.Leader != (Leader{Length: 2, Minutes: true}) || s.Leader.String() != "2min" {
		t.Errorf("leader: got %s", s.Leader)
	}
	if !s.SimulationMode.Ground() {
		t.Errorf("expected a ground simulation mode")
	}
	d := Defaults()
	if s.HistoryDots != d.HistoryDots || s.TagFamily != d.TagFamily || s.WindowArea != d.WindowArea {
		t.Errorf("defaults not applied: got %+v", s)
	}
}

func TestDiagnostics(t *testing.T) {
	text := `SHOWC:yes
no colon here
WINDOWAREA:95.0:9.9:49.0:13.6
PLUGIN:TopSky plugin
Fixes:ROKIL:name
UNKNOWNKEY:1
PLUGIN:p:k:1
PLUGIN:p:k:2
`
	s, st := parse(t, text)

	expected := []struct {
		line int
		kind diag.Kind
		err  error
	}{
		{1, diag.Tolerated, diag.ErrEntityTolerated},
		{2, diag.Tolerated, diag.ErrEntityTolerated},
		{3, diag.Semantic, coord.ErrOutOfRange},
		{4, diag.Tolerated, diag.ErrEntityTolerated},
		{6, diag.Tolerated, diag.ErrEntityTolerated},
	}
	d := st.Sink.Diagnostics()
	if len(d) != len(expected) {
		t.Fatalf("got %d diagnostics, expected %d:\n%s", len(d), len(expected), st.Sink)
	}
	for i, e := range expected {
		if d[i].Line != e.line || d[i].Kind != e.kind || !errors.Is(d[i].Err, e.err) {
			t.Errorf("diagnostic %d: got %s, expected line %d %s", i, d[i], e.line, e.kind)
		}
	}

	if !s.ShowC || s.WindowArea != Defaults().WindowArea {
		t.Errorf("bad values should leave defaults: got %+v", s)
	}
	if len(s.Plugins) != 1 || s.Plugins[0].Value != "2" {
		t.Errorf("plugins: got %+v", s.Plugins)
	}
}
