// export/geojson.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package export converts parsed documents to other formats: GeoJSON
// feature collections of their geographic content and msgpack snapshots
// of the whole document.
package export

import (
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/mmp/esfiles"
	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/ese"
	"github.com/mmp/esfiles/navdata"
	"github.com/mmp/esfiles/sct"
	"github.com/mmp/esfiles/style"
	"github.com/mmp/esfiles/topsky"
)

// Every feature has a "kind" property naming what it came from, e.g.
// "vor", "runway" or "sector_line", and most have a "name".
const (
	kindProperty = "kind"
	nameProperty = "name"
)

// GeoJSON returns the geographic content of the document as a feature
// collection. Families without geography give an empty collection.
// Points given by designators that were never resolved are left out.
func GeoJSON(doc *esfiles.Document) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if doc.SectorFile != nil {
		sectorFile(fc, doc.SectorFile)
	}
	if doc.AirspaceFile != nil {
		airspaceFile(fc, doc.AirspaceFile)
	}
	if doc.Maps != nil {
		for _, m := range doc.Maps.Maps {
			topskyMap(fc, m)
		}
	}
	if doc.Intersections != nil {
		intersections(fc, doc.Intersections)
	}
	if doc.Airways != nil {
		airways(fc, doc.Airways)
	}
	return fc
}

func lonlat(p coord.Position) []float64 {
	return []float64{p.Lon, p.Lat}
}

func lineString(pts []coord.Position) [][]float64 {
	ls := make([][]float64, len(pts))
	for i, p := range pts {
		ls[i] = lonlat(p)
	}
	return ls
}

// ring returns a closed linear ring through pts.
func ring(pts []coord.Position) [][]float64 {
	r := lineString(pts)
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		r = append(r, lonlat(pts[0]))
	}
	return r
}

func point(fc *geojson.FeatureCollection, kind, name string, p coord.Position) *geojson.Feature {
	f := geojson.NewPointFeature(lonlat(p))
	return add(fc, f, kind, name)
}

func add(fc *geojson.FeatureCollection, f *geojson.Feature, kind, name string) *geojson.Feature {
	f.SetProperty(kindProperty, kind)
	if name != "" {
		f.SetProperty(nameProperty, name)
	}
	fc.AddFeature(f)
	return f
}

func setColour(f *geojson.Feature, name string, rgb style.RGB) {
	if name != "" {
		f.SetProperty("colour", name)
		f.SetProperty("rgb", rgb.String())
	}
}

func sectorFile(fc *geojson.FeatureCollection, sf *sct.SectorFile) {
	for _, v := range sf.VORs {
		point(fc, "vor", v.Name, v.Position).SetProperty("frequency", v.Frequency)
	}
	for _, n := range sf.NDBs {
		point(fc, "ndb", n.Name, n.Position).SetProperty("frequency", n.Frequency)
	}
	for _, ap := range sf.Airports {
		f := point(fc, "airport", ap.Name, ap.Position)
		f.SetProperty("frequency", ap.Frequency)
		if ap.Airspace != "" {
			f.SetProperty("airspace", ap.Airspace)
		}
	}
	for _, fix := range sf.Fixes {
		point(fc, "fix", fix.Name, fix.Position)
	}
	for _, r := range sf.Runways {
		f := add(fc, geojson.NewLineStringFeature(lineString(r.P[:])), "runway", r.Airport)
		f.SetProperty("runways", r.Number[0]+"/"+r.Number[1])
		f.SetProperty("length_km", r.LengthKM())
	}

	chains := func(kind string, cs []sct.Chain) {
		for _, c := range cs {
			var lines [][][]float64
			for _, s := range c.Segments {
				if s.P[0].Resolved && s.P[1].Resolved {
					lines = append(lines, lineString([]coord.Position{s.P[0].Position, s.P[1].Position}))
				}
			}
			if len(lines) == 0 {
				continue
			}
			f := add(fc, geojson.NewMultiLineStringFeature(lines...), kind, c.Name)
			if s := c.Segments[0]; s.Colour != "" {
				setColour(f, s.Colour, s.RGB)
			}
		}
	}
	chains("artcc", sf.ARTCC)
	chains("artcc_high", sf.ARTCCHigh)
	chains("artcc_low", sf.ARTCCLow)
	chains("high_airway", sf.HighAirways)
	chains("low_airway", sf.LowAirways)
	chains("sid", sf.SIDs)
	chains("star", sf.STARs)
	chains("geo", sf.Geo)

	for _, r := range sf.Regions {
		if len(r.Points) < 3 {
			continue
		}
		f := add(fc, geojson.NewPolygonFeature([][][]float64{ring(r.Points)}), "region", r.Name)
		setColour(f, r.Colour, r.RGB)
	}
	for _, l := range sf.Labels {
		f := point(fc, "label", l.Text, l.Position)
		setColour(f, l.Colour, l.RGB)
	}
}

func airspaceFile(fc *geojson.FeatureCollection, af *ese.AirspaceFile) {
	for _, p := range af.Positions {
		for _, v := range p.Visibility {
			f := point(fc, "visibility_point", p.Name, v)
			f.SetProperty("callsign", p.Callsign)
			f.SetProperty("frequency", p.Frequency)
		}
	}
	for _, sl := range af.SectorLines {
		if len(sl.Points) < 2 {
			continue
		}
		add(fc, geojson.NewLineStringFeature(lineString(sl.Points)), "sector_line", sl.ID)
	}
	for _, c := range af.CircleSectorLines {
		if !c.Center.Resolved {
			continue
		}
		f := point(fc, "circle_sector_line", c.ID, c.Center.Position)
		f.SetProperty("radius_nm", c.Radius)
	}
	for _, s := range af.Sectors {
		var lines [][][]float64
		for _, b := range s.Border {
			if len(b.Points) >= 2 {
				lines = append(lines, lineString(b.Points))
			}
		}
		if len(lines) == 0 {
			continue
		}
		f := add(fc, geojson.NewMultiLineStringFeature(lines...), "sector", s.ID)
		f.SetProperty("bottom", s.Bottom)
		f.SetProperty("top", s.Top)
		if len(s.Owners) > 0 {
			f.SetProperty("owners", s.Owners)
		}
	}
	for _, m := range af.MSAWs {
		if len(m.Points) < 3 {
			continue
		}
		f := add(fc, geojson.NewPolygonFeature([][][]float64{ring(m.Points)}), "msaw", m.ID)
		f.SetProperty("altitude", m.Altitude)
	}
}

// topskyMap adds a map's geometry. MOVETO/LINETO runs and LINE
// instructions become line strings, polygons become polygons and any
// other primitive is represented by its points.
func topskyMap(fc *geojson.FeatureCollection, m topsky.Map) {
	props := func(f *geojson.Feature, sty *draw.Style) {
		f.SetProperty("folder", m.Folder)
		if sty != nil {
			setColour(f, sty.Colour, sty.RGB)
		} else {
			f.SetProperty("colour", m.Colour)
		}
	}

	var run []coord.Position
	var runStyle *draw.Style
	flush := func() {
		if len(run) >= 2 {
			props(add(fc, geojson.NewLineStringFeature(lineString(run)), "map_line", m.Name), runStyle)
		}
		run, runStyle = nil, nil
	}

	for _, in := range m.Instructions {
		pts := in.Positions()
		switch in.Op {
		case draw.MoveTo:
			flush()
			run, runStyle = pts, in.Style
		case draw.LineTo:
			if len(run) == 0 {
				runStyle = in.Style
			}
			run = append(run, pts...)
		case draw.Line:
			flush()
			if len(pts) >= 2 {
				props(add(fc, geojson.NewLineStringFeature(lineString(pts)), "map_line", m.Name), in.Style)
			}
		case draw.Polygon:
			flush()
			if len(pts) >= 3 {
				f := add(fc, geojson.NewPolygonFeature([][][]float64{ring(pts)}), "map_polygon", m.Name)
				props(f, in.Style)
				if in.Style != nil && in.Style.Fill.Kind == style.FillPercent {
					f.SetProperty("fill_percent", in.Style.Fill.Percent)
				}
			}
		default:
			flush()
			for _, p := range pts {
				f := point(fc, "map_"+strings.ToLower(in.Op.String()), m.Name, p)
				props(f, in.Style)
				if len(in.Radii) > 0 {
					f.SetProperty("radius_nm", in.Radii[0])
				}
			}
		}
	}
	flush()

	for _, t := range m.Texts {
		if t.Location.Resolved {
			f := point(fc, "map_text", m.Name, t.Location.Position)
			f.SetProperty("text", t.Content)
			setColour(f, t.Colour, t.RGB)
		}
	}
	for _, s := range m.Symbols {
		if s.Location.Resolved {
			f := point(fc, "map_symbol", m.Name, s.Location.Position)
			f.SetProperty("symbol", s.Name)
			if s.Label != nil {
				f.SetProperty("label", s.Label.Text)
			}
			setColour(f, s.Colour, s.RGB)
		}
	}
}

func intersections(fc *geojson.FeatureCollection, x *navdata.Intersections) {
	for _, i := range x.Fixes {
		point(fc, "intersection", i.Name, i.Position).SetProperty("type", i.Type)
	}
}

// airways adds one line string per segment, from the fix to its next
// neighbour, so that each leg appears once.
func airways(fc *geojson.FeatureCollection, a *navdata.Airways) {
	for _, s := range a.Segments {
		if s.Next == nil {
			continue
		}
		f := add(fc, geojson.NewLineStringFeature(lineString([]coord.Position{s.Position, s.Next.Position})),
			"airway", s.Airway)
		f.SetProperty("from", s.Fix)
		f.SetProperty("to", s.Next.Name)
		if c := s.Class.String(); c != "" {
			f.SetProperty("class", c)
		}
		if s.Next.MinimumLevel > 0 {
			f.SetProperty("minimum_level", s.Next.MinimumLevel)
		}
	}
}
