// sct/sct.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package sct parses sector files (.sct, SCT2), as used in VATSIM to
// describe airports, runways, navigation aids, and other items that
// remain in fixed locations in the world.
package sct

import (
	"fmt"
	"io"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/style"
)

// SectorFile is a structure that wraps up all of the items processed by
// the parser.
type SectorFile struct {
	Info Info

	VORs        []Navaid
	NDBs        []Navaid
	Airports    []Airport
	Fixes       []Fix
	Runways     []Runway
	SIDs        []Chain
	STARs       []Chain
	ARTCC       []Chain // ARTCC boundary
	ARTCCHigh   []Chain // High boundary of ARTCC
	ARTCCLow    []Chain // Low boundary of ARTCC
	Geo         []Chain
	Regions     []Region
	Labels      []Label
	HighAirways []Chain
	LowAirways  []Chain

	// Skipped lists the headers of sections that are not part of the
	// format; their contents are ignored.
	Skipped []string `json:",omitempty" msgpack:",omitempty"`
}

// Info holds the fixed-order contents of the [INFO] section.
type Info struct {
	Name              string // Sector file identifier
	DefaultCallsign   string
	DefaultAirport    string
	Center            coord.Position // Default center scope position
	NmPerLatitude     float64        // Nautical miles per degree latitude (should always be 60)
	NmPerLongitude    float64        // Nautical miles per degree longitude (varies according to latitude)
	MagneticVariation float64        // Degrees of magnetic variation in this region of the world
	Scale             float64
}

// Navaid is a VOR or NDB.
type Navaid struct {
	Name      string
	Frequency string
	Position  coord.Position
}

type Airport struct {
	Name      string
	Frequency string // tower frequency
	Position  coord.Position
	Airspace  string `json:",omitempty" msgpack:",omitempty"`
}

type Fix struct {
	Name     string
	Position coord.Position
}

type Runway struct {
	Number      [2]string         // Runway number at each end
	Heading     [2]float64        // Actual magnetic heading at each end
	P           [2]coord.Position // Positions of the endpoints
	Airport     string            // Name of the runway's airport.
	Description string            `json:",omitempty" msgpack:",omitempty"`
}

// LengthKM returns the distance between the runway thresholds.
func (r Runway) LengthKM() float64 {
	return r.P[0].DistanceKM(r.P[1])
}

// Segment represents a line segment between two locations, drawn in the
// colour that was in effect where it was declared.
type Segment struct {
	P      [2]coord.Location
	Colour string    `json:",omitempty" msgpack:",omitempty"`
	RGB    style.RGB `json:",omitempty" msgpack:",omitempty"`
}

func (s Segment) String() string {
	return fmt.Sprintf("%v %v", s.P[0], s.P[1])
}

// Chain is a named sequence of segments: an ARTCC boundary, airway,
// SID/STAR diagram or GEO line group.
type Chain struct {
	Name     string
	Segments []Segment
	Line     int // line where the chain starts
}

// Region is a filled polygon.
type Region struct {
	Name   string `json:",omitempty" msgpack:",omitempty"`
	Colour string
	RGB    style.RGB
	Points []coord.Position
	Line   int
}

type Label struct {
	Text     string
	Position coord.Position
	Colour   string
	RGB      style.RGB
}

// Writes a text representation of the sector file to the provided writer.
func (sf *SectorFile) Write(w io.Writer, colours *style.Table) {
	fmt.Fprintf(w, "INFO:\n\tName: %s\n\tCallsign: %s\n\tAirport: %s\n\tCenter: %s\n",
		sf.Info.Name, sf.Info.DefaultCallsign, sf.Info.DefaultAirport, sf.Info.Center)
	fmt.Fprintf(w, "\tNmPerLatitude: %f\n\tNmPerLongitude: %f\n\tMagneticVariation: %f\n",
		sf.Info.NmPerLatitude, sf.Info.NmPerLongitude, sf.Info.MagneticVariation)
	fmt.Fprintf(w, "\tScale: %f\n\n", sf.Info.Scale)

	if colours != nil {
		fmt.Fprintf(w, "Named Colors:\n")
		for _, d := range colours.Definitions {
			fmt.Fprintf(w, "\t%s: %s (line %d)\n", d.Name, d.RGB(), d.Line)
		}
		fmt.Fprintln(w)
	}

	navaids := func(title string, n []Navaid) {
		fmt.Fprintf(w, "%s:\n", title)
		for _, nv := range n {
			fmt.Fprintf(w, "\t%s %s %s\n", nv.Name, nv.Frequency, nv.Position)
		}
		fmt.Fprintln(w)
	}
	navaids("VORs", sf.VORs)
	navaids("NDBs", sf.NDBs)

	fmt.Fprintf(w, "Airports:\n")
	for _, ap := range sf.Airports {
		fmt.Fprintf(w, "\t%s %s %s\n", ap.Name, ap.Frequency, ap.Position)
	}

	fmt.Fprintf(w, "\nFixes:\n")
	for _, fix := range sf.Fixes {
		fmt.Fprintf(w, "\t%s %s\n", fix.Name, fix.Position)
	}

	fmt.Fprintf(w, "\nRunways:\n")
	for _, r := range sf.Runways {
		fmt.Fprintf(w, "\t%s: %s/%s (%.1f/%.1f) %s - %s, %.2f km\n", r.Airport,
			r.Number[0], r.Number[1], r.Heading[0], r.Heading[1], r.P[0], r.P[1], r.LengthKM())
	}

	chains := func(title string, cs []Chain) {
		fmt.Fprintf(w, "\n%s:\n", title)
		for _, c := range cs {
			fmt.Fprintf(w, "\t%s\n", c.Name)
			for _, s := range c.Segments {
				if s.Colour != "" {
					fmt.Fprintf(w, "\t\t%s - %s (%s %s)\n", s.P[0], s.P[1], s.Colour, s.RGB)
				} else {
					fmt.Fprintf(w, "\t\t%s - %s\n", s.P[0], s.P[1])
				}
			}
		}
	}
	chains("ARTCC", sf.ARTCC)
	chains("ARTCC Low", sf.ARTCCLow)
	chains("ARTCC High", sf.ARTCCHigh)
	chains("Low Airways", sf.LowAirways)
	chains("High Airways", sf.HighAirways)
	chains("Geo", sf.Geo)
	chains("SIDs", sf.SIDs)
	chains("STARs", sf.STARs)

	fmt.Fprintf(w, "\nRegions:\n")
	for _, region := range sf.Regions {
		fmt.Fprintf(w, "\t%s (%s %s):\n", region.Name, region.Colour, region.RGB)
		for _, pt := range region.Points {
			fmt.Fprintf(w, "\t\t%s\n", pt)
		}
	}

	fmt.Fprintf(w, "\nLabels:\n")
	for _, l := range sf.Labels {
		fmt.Fprintf(w, "\t\"%s\" %s %s\n", l.Text, l.Position, l.Colour)
	}

	if len(sf.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped sections:\n")
		for _, s := range sf.Skipped {
			fmt.Fprintf(w, "\t[%s]\n", s)
		}
	}
}
