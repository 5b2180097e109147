// summary.go
// Copyright(c) 2022 Matt Pharr, Apache License

package esfiles

import (
	"fmt"
	"io"
)

// Count is the number of entities of one kind in a document.
type Count struct {
	Name string
	N    int
}

// Summary returns the number of entities of each kind in the document,
// in a fixed order for its family. Kinds with no entities are omitted.
func (d *Document) Summary() []Count {
	var c []Count
	add := func(name string, n int) {
		if n > 0 {
			c = append(c, Count{Name: name, N: n})
		}
	}

	if sf := d.SectorFile; sf != nil {
		add("vors", len(sf.VORs))
		add("ndbs", len(sf.NDBs))
		add("airports", len(sf.Airports))
		add("fixes", len(sf.Fixes))
		add("runways", len(sf.Runways))
		add("sids", len(sf.SIDs))
		add("stars", len(sf.STARs))
		add("artcc", len(sf.ARTCC))
		add("artcc_high", len(sf.ARTCCHigh))
		add("artcc_low", len(sf.ARTCCLow))
		add("geo", len(sf.Geo))
		add("regions", len(sf.Regions))
		add("labels", len(sf.Labels))
		add("high_airways", len(sf.HighAirways))
		add("low_airways", len(sf.LowAirways))
	}
	if af := d.AirspaceFile; af != nil {
		add("positions", len(af.Positions))
		add("sector_lines", len(af.SectorLines))
		add("circle_sector_lines", len(af.CircleSectorLines))
		add("sectors", len(af.Sectors))
		add("display_sector_lines", len(af.DisplaySectorLines))
		add("agreements", len(af.Agreements))
		add("msaws", len(af.MSAWs))
		add("procedures", len(af.Procedures))
	}
	if s := d.DisplaySettings; s != nil {
		add("plugin_settings", len(s.Plugins))
		add("items", len(s.Items))
	}
	if s := d.TopSkySettings; s != nil {
		add("settings", len(s.Entries))
		add("colours", len(s.Colours))
	}
	if m := d.Maps; m != nil {
		add("maps", len(m.Maps))
		add("symbols", len(m.Symbols))
		add("colours", len(m.Colours))
		add("line_styles", len(m.LineStyles))
		add("overrides", len(m.Overrides))
	}
	if s := d.Symbols; s != nil {
		add("symbols", len(s.Symbols))
	}
	if s := d.Symbology; s != nil {
		add("items", len(s.Items))
		add("symbols", len(s.Symbols))
	}
	add("aircraft", len(d.Aircraft))
	add("airlines", len(d.Airlines))
	add("airports", len(d.Airports))
	if x := d.Intersections; x != nil {
		add("intersections", len(x.Fixes))
	}
	if a := d.Airways; a != nil {
		add("airway_segments", len(a.Segments))
	}
	if p := d.Profile; p != nil {
		add("settings", len(p.Settings))
	}
	return c
}

// WriteSummary writes the family, entity counts and number of
// diagnostics of the document to w.
func (d *Document) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "%s (%s):\n", d.Filename, d.Family)
	for _, c := range d.Summary() {
		fmt.Fprintf(w, "\t%s: %d\n", c.Name, c.N)
	}
	if n := len(d.Tolerated()); n > 0 {
		fmt.Fprintf(w, "\ttolerated lines: %d\n", n)
	}
	if n := len(d.Diagnostics) - len(d.Tolerated()); n > 0 {
		fmt.Fprintf(w, "\tsemantic diagnostics: %d\n", n)
	}
}
