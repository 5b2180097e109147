// ese/ese_test.go
// Copyright(c) 2022 Matt Pharr, Apache License

package ese

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/mmp/esfiles/active"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

func parse(t *testing.T, text string) (*AirspaceFile, *extract.State) {
	t.Helper()
	st := extract.NewState("test.ese", grammar.Modern, diag.DefaultPolicy, nil, nil)
	af, err := Parse(grammar.Scan(text), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return af, st
}

func TestPositions(t *testing.T) {
	af, st := parse(t, `
[POSITIONS]
EDDM_ATIS:Muenchen ATIS:123.130:MX::EDDM:ATIS:::0000:0000
EDMM_ALB_CTR:Muenchen Radar:129.100:ALB:ALB:EDMM:CTR:::2354:2367:N049.02.24.501:E012.31.35.850
EDMM_TEG_CTR:Muenchen Radar:133.680:TEG:TEG:EDMM:CTR:::2354:2367:N048.10.49.419:E011.48.59.530
EDXX_FIS_CTR:Langen Information:128.950:GIXX:FIS:EDXX:CTR:::2001:2577:N049.26.51.334:E010.13.06.336:N052.28.08.891:E010.52.12.796
EGBB_ATIS:Birmingham ATIS:136.030:BBI:B:EGBB:ATIS:-:-::
`)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics: %s", st.Sink)
	}
	if len(af.Positions) != 5 {
		t.Fatalf("got %d positions", len(af.Positions))
	}

	mx, ok := af.Position("MX")
	if !ok || mx.Name != "EDDM_ATIS" || mx.Callsign != "Muenchen ATIS" || mx.Prefix != "EDDM" ||
		mx.Middle != "" || mx.Suffix != "ATIS" || mx.Frequency != "123.130" {
		t.Errorf("MX: %+v", mx)
	}
	if mx.Squawks == nil || *mx.Squawks != (SquawkRange{0, 0}) || len(mx.Visibility) != 0 {
		t.Errorf("MX squawks %v visibility %v", mx.Squawks, mx.Visibility)
	}

	alb, _ := af.Position("ALB")
	if alb.Squawks == nil || *alb.Squawks != (SquawkRange{2354, 2367}) || len(alb.Visibility) != 1 {
		t.Fatalf("ALB: %+v", alb)
	}
	if v := alb.Visibility[0]; math.Abs(v.Lat-49.04013916666666) > 1e-9 || math.Abs(v.Lon-12.526625) > 1e-9 {
		t.Errorf("ALB visibility point %v", v)
	}

	if gixx, _ := af.Position("GIXX"); len(gixx.Visibility) != 2 || math.Abs(gixx.Visibility[1].Lat-52.46913638888889) > 1e-9 {
		t.Errorf("GIXX: %+v", gixx)
	}
	if bbi, _ := af.Position("BBI"); bbi.Squawks != nil || bbi.Middle != "B" {
		t.Errorf("BBI: %+v", bbi)
	}
}

func TestPositionErrors(t *testing.T) {
	af, st := parse(t, `[POSITIONS]
EDDM_ATIS:Muenchen ATIS:123.130
EDDM_TWR:Muenchen Tower:118.700:MT:TWR:EDDM:TWR:::2301:xx
EDDM_DEL:Muenchen Delivery:121.730:MD::EDDM:DEL:::2301:2377:N048.21.13.618
EDDM_GND:Muenchen Ground:121.780:MG::EDDM:GND:::2301:2377
EDDM_GNDX:Muenchen Ground:121.900:MG::EDDM:GND:::2301:2377
`)
	if len(af.Positions) != 1 || af.Positions[0].Name != "EDDM_GNDX" {
		t.Errorf("expected the last MG position to win: %+v", af.Positions)
	}

	var tolerated, duplicates int
	for _, d := range st.Sink.Diagnostics() {
		switch {
		case d.Kind == diag.Tolerated:
			tolerated++
		case errors.Is(d, ErrDuplicate) && d.Action == diag.Keep && d.Line == 6:
			duplicates++
		}
	}
	if tolerated != 3 || duplicates != 1 {
		t.Errorf("expected 3 tolerated lines and 1 duplicate:\n%s", st.Sink)
	}
}

const airspace = `
[AIRSPACE]

SECTORLINE:109
COORD:N049.08.17.000:E011.07.57.000 ; inline comment
COORD:N049.10.00.000:E011.58.00.000
DISPLAY:EDMM·ETSIA·000·075:EDMM·ETSIA·000·075:EDMM·EDMMALB·000·105

SECTORLINE:152
COORD:N048.40.03.000:E011.47.39.000
COORD:N049.10.00.000:E011.58.00.000

SECTORLINE:153
COORD:N048.40.03.000:E011.47.39.000
COORD:N048.40.04.000:E011.30.42.000
COORD:N048.40.04.000:E011.19.15.000

SECTORLINE:154
COORD:N048.40.04.000:E011.19.15.000
COORD:N049.07.10.000:E010.40.25.000

SECTORLINE:155
COORD:N049.07.10.000:E010.40.25.000
COORD:N049.08.17.000:E011.07.57.000

SECTOR:EDMM·EDMMALB·000·105:00000:10500
OWNER:SWA:ALB:WLD:RDG:EGG:ZUG:MMC
BORDER:152:153:154:155:109
DEPAPT:ETSN:ETSI
ARRAPT:ETSN:ETSI

COPX:*:*:RUDNO:ETSI:*:EDMM·EDMMRDG·000·135:EDMM·EDMMALB·000·105:*:9000:RUDNO
COPX:*:*:*:EDMO:*:EDMM·EDMMALB·000·105:EDMM·EDMMTMANL·000·095:*:9300:INDIV
COPX:EDMA:*:MIQ:*:*:EDMM·EDMMTMANH·095·195:EDMM·EDMMALB·135·245:19000:*:MIQ
COPX:*:*:MIQ:EDMA:*:EDMM·EDMMALB·000·105:EDMM·EDMMTMANL·000·095:*:8000:MIQ
COPX:*:*:STAUB:ETSI:*:EDMM·EDMMRDG·000·135:EDMM·EDMMALB·000·105:*:10000:STAUB
FIR_COPX:*:*:PETIX: EDDR:*:EDMM·EDMMALB·245·305:EDGG·WUR142·245·305:*:28000:PETIX
COPX:AKINI:*:TALAL:EDFZ :*:EDMM·EDUUDON14·315·355:EDMM·EDMMALB·245·315:*:31300:TALAL
`

func TestSectors(t *testing.T) {
	af, st := parse(t, airspace)
	if st.Sink.HaveDiagnostics() {
		t.Errorf("unexpected diagnostics: %s", st.Sink)
	}

	id := "EDMM·EDMMALB·000·105"
	alb, ok := af.Sector(id)
	if !ok {
		t.Fatalf("%s not found", id)
	}
	if alb.Bottom != 0 || alb.Top != 10500 || len(alb.Owners) != 7 || alb.Owners[0] != "SWA" {
		t.Errorf("sector %+v", alb)
	}
	if !reflect.DeepEqual(alb.DepartureAirports, []string{"ETSN", "ETSI"}) ||
		!reflect.DeepEqual(alb.ArrivalAirports, []string{"ETSN", "ETSI"}) {
		t.Errorf("airports %v %v", alb.DepartureAirports, alb.ArrivalAirports)
	}

	if len(alb.Border) != 5 {
		t.Fatalf("expected 5 border lines, got %d", len(alb.Border))
	}
	if alb.Border[0].ID != "152" || alb.Border[4].ID != "109" || len(alb.Border[1].Points) != 3 {
		t.Errorf("border order %+v", alb.Border)
	}
	if p := alb.Border[0].Points[0]; math.Abs(p.Lat-48.6675) > 1e-9 || math.Abs(p.Lon-11.794166666666667) > 1e-9 {
		t.Errorf("first border point %v", p)
	}
	if d := af.SectorLines[0].Displays; len(d) != 1 || d[0].Right != "EDMM·EDMMALB·000·105" {
		t.Errorf("displays %+v", d)
	}

	into := af.AgreementsInto(id)
	if len(into) != 2 || into[0].Fix != "RUDNO" || into[0].Descent != 9000 || into[0].Climb != 0 ||
		into[0].PreviousFix != "" || into[0].SubsequentFix != "ETSI" || into[1].Description != "STAUB" {
		t.Errorf("agreements into %s: %+v", id, into)
	}
	out := af.AgreementsOutOf(id)
	if len(out) != 2 || out[0].Fix != "" || out[0].SubsequentFix != "EDMO" || out[0].Descent != 9300 ||
		out[1].Fix != "MIQ" || out[1].Descent != 8000 {
		t.Errorf("agreements out of %s: %+v", id, out)
	}

	var fir []Agreement
	for _, a := range af.Agreements {
		if a.FIR {
			fir = append(fir, a)
		}
	}
	if len(fir) != 1 || fir[0].SubsequentFix != "EDDR" || fir[0].EntrySector != "EDGG·WUR142·245·305" {
		t.Errorf("FIR agreements %+v", fir)
	}
	if a := af.Agreements[len(af.Agreements)-1]; a.SubsequentFix != "EDFZ" || a.PreviousFix != "AKINI" || a.Climb != 0 {
		t.Errorf("fields not trimmed: %+v", a)
	}
}

func TestRelink(t *testing.T) {
	af, _ := parse(t, airspace)
	id := "EDMM·EDMMALB·000·105"
	before, _ := af.Sector(id)

	for i := range af.Sectors {
		af.Sectors[i].Border, af.Sectors[i].Circles = nil, nil
	}
	af.Relink()
	after, _ := af.Sector(id)
	if !reflect.DeepEqual(before.Border, after.Border) || !reflect.DeepEqual(before.Circles, after.Circles) {
		t.Errorf("relinked border differs: %+v vs %+v", after.Border, before.Border)
	}
}

func TestAirspaceDiagnostics(t *testing.T) {
	af, st := parse(t, `[AIRSPACE]
SECTORLINE:1
COORD:N048.00.00.000:E011.00.00.000
SECTORLINE:1
COORD:N049.00.00.000:E012.00.00.000
COORD:N049.10.00.000:E012.10.00.000
SECTORLINE:2
COORD:N049.00.00.000:N012.00.00.000
CIRCLE_SECTORLINE:EDDM_CTR:N048.21.13.618:E011.47.09.909:10.5
CIRCLE_SECTORLINE:EDMO_CTR:MIQ:5
DISPLAY:X:Y:Z
SECTOR:TWR:0:3000
OWNER:MT:MX
ALTOWNER:Night:MX
ACTIVE:EDDM:26R
ACTIVE:EDDM
GUEST:MX:EDDM:*
BORDER:1:2:EDDM_CTR:3
COORD:N049.00.00.000:E012.00.00.000
DISPLAY_SECTORLINE:4:TWR:TWR:APP
MSAW:ALPS:12000
COORD:N047.00.00.000:E011.00.00.000
COORD:N047.10.00.000:E011.00.00.000
COORD:N047.10.00.000:E011.10.00.000
OWNER:MT
COPX:*:*:MIQ:*:*:A:B:*:high:MIQ
FOO:bar
`)

	if len(af.SectorLines) != 1 || len(af.SectorLines[0].Points) != 2 || af.SectorLines[0].Points[0].Lat != 49 {
		t.Errorf("expected the second definition of line 1 only: %+v", af.SectorLines)
	}
	if len(af.CircleSectorLines) != 2 {
		t.Fatalf("circles %+v", af.CircleSectorLines)
	}
	if c := af.CircleSectorLines[0]; c.Radius != 10.5 || !c.Center.Resolved {
		t.Errorf("EDDM_CTR %+v", c)
	}
	if c := af.CircleSectorLines[1]; c.Center.Name != "MIQ" || c.Center.Resolved || len(c.Displays) != 1 {
		t.Errorf("EDMO_CTR %+v", c)
	}

	s, _ := af.Sector("TWR")
	if len(s.Border) != 1 || len(s.Circles) != 1 || s.Circles[0].ID != "EDDM_CTR" {
		t.Errorf("joined border %+v circles %+v", s.Border, s.Circles)
	}
	if !reflect.DeepEqual(s.Runways, []active.Runway{{ICAO: "EDDM", Designator: "26R"}}) ||
		len(s.Guests) != 1 || s.Guests[0].Arrival != "*" || len(s.AltOwners) != 1 {
		t.Errorf("sector settings %+v", s)
	}
	if len(af.MSAWs) != 1 || af.MSAWs[0].Altitude != 12000 || len(af.MSAWs[0].Points) != 3 {
		t.Errorf("MSAW %+v", af.MSAWs)
	}
	if len(af.Agreements) != 0 {
		t.Errorf("agreement with a bad level was kept")
	}

	type key struct {
		line int
		kind diag.Kind
	}
	got := make(map[key]diag.Diagnostic)
	for _, d := range st.Sink.Diagnostics() {
		got[key{d.Line, d.Kind}] = d
	}
	for _, c := range []struct {
		line    int
		kind    diag.Kind
		err     error
		context string
	}{
		{4, diag.Semantic, ErrDuplicate, "AIRSPACE / SECTORLINE 1"},
		{8, diag.Semantic, nil, "AIRSPACE / SECTORLINE 2"},
		{16, diag.Tolerated, diag.ErrEntityTolerated, "AIRSPACE / SECTOR TWR"},
		{18, diag.Semantic, ErrUnknownSectorLine, "AIRSPACE"},
		{19, diag.Tolerated, diag.ErrEntityTolerated, "AIRSPACE / SECTOR TWR"},
		{20, diag.Semantic, ErrUnknownSectorLine, "AIRSPACE"},
		{25, diag.Tolerated, diag.ErrEntityTolerated, "AIRSPACE / MSAW ALPS"},
		{26, diag.Tolerated, diag.ErrEntityTolerated, "AIRSPACE"},
		{27, diag.Tolerated, diag.ErrEntityTolerated, "AIRSPACE"},
	} {
		d, ok := got[key{c.line, c.kind}]
		if !ok {
			t.Errorf("line %d: no %s diagnostic", c.line, c.kind)
			continue
		}
		if c.err != nil && !errors.Is(d, c.err) {
			t.Errorf("line %d: got %v, expected %v", c.line, d.Err, c.err)
		}
		if d.Context != c.context {
			t.Errorf("line %d: context %q, expected %q", c.line, d.Context, c.context)
		}
	}
	// Line 2 is dropped, so the border line reports both 2 and 3.
	var unknown []string
	for _, d := range st.Sink.Diagnostics() {
		if errors.Is(d, ErrUnknownSectorLine) && d.Line == 18 {
			unknown = append(unknown, d.Message)
		}
	}
	if len(unknown) != 2 {
		t.Errorf("unknown border lines: %v", unknown)
	}
}

func TestProcedures(t *testing.T) {
	af, st := parse(t, `
[SIDSSTARS]
STAR:EDJA:06:KPT1C:KPT JA450 JA430 JA060 FIMPE
SID:EDDM:26R:GIVMI1N:DM060 DM063 GIVMI
SID:EDDM::TEST1A:
APP:EDDM:26R:ILS26R:DM060
[FREETEXT]
N048.21.13.618:E011.47.09.909:Airports:EDDM
`)
	if len(af.Procedures) != 3 {
		t.Fatalf("got %d procedures", len(af.Procedures))
	}
	expect := Procedure{Kind: STAR, Airport: "EDJA", Runway: "06", Name: "KPT1C",
		Waypoints: []string{"KPT", "JA450", "JA430", "JA060", "FIMPE"}, Line: 3}
	if !reflect.DeepEqual(af.Procedures[0], expect) {
		t.Errorf("got %+v, expected %+v", af.Procedures[0], expect)
	}
	sids := af.ProceduresOf(SID)
	if len(sids) != 2 || sids[0].Name != "GIVMI1N" || sids[1].Runway != "" || len(sids[1].Waypoints) != 0 {
		t.Errorf("SIDs %+v", sids)
	}
	if d := st.Sink.Diagnostics(); len(d) != 1 || d[0].Line != 6 {
		t.Errorf("expected one tolerated line: %s", st.Sink)
	}
	if !reflect.DeepEqual(af.Skipped, []string{"FREETEXT"}) {
		t.Errorf("skipped %v", af.Skipped)
	}
}
