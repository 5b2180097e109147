// sct/parse.go
// Copyright(c) 2022 Matt Pharr, Apache License

package sct

import (
	"fmt"
	"strings"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

/* Open issues:
- EDGG_1512a.sct does things like this in the ARTCC section, both having a color at the end
  and also an apparent implicit assumption that the name can be skipped after the first time.

EDGGDFA07H_FL115_FL135    N000.00.00.000 E000.00.00.000 N000.00.00.000 E000.00.00.000 AppSector
                          N049.52.14.000 E008.32.50.000 N049.52.59.000 E008.29.12.000 AppSector

  Indented lines continue the open chain, so this parses, but the bogus
  first segment is kept.
*/

type sectorFileParser struct {
	st *extract.State
	sf *SectorFile
}

// Parse parses the lines of a sector file. Sections are processed in
// document order so that colour references see the definitions made
// before them and designators resolve only against navaids, fixes and
// airports declared earlier. The only error returned is a
// *grammar.StructuralError; everything else is recorded in st.Sink.
func Parse(lines []grammar.Line, st *extract.State) (*SectorFile, error) {
	sections, err := extract.Split(lines, st.Filename)
	if err != nil {
		return nil, err
	}

	p := &sectorFileParser{st: st, sf: &SectorFile{}}
	for _, sec := range sections {
		st.Sink.Reset()
		if sec.Name != "" {
			st.Sink.Push(sec.Name)
		}

		switch sec.Name {
		case "":
			for _, l := range sec.Lines {
				if p.content(l) {
					p.st.Tolerate(l, "text before the first section")
				}
			}
		case "INFO":
			if err := p.parseInfo(sec); err != nil {
				return nil, err
			}
		case "VOR":
			p.sf.VORs = append(p.sf.VORs, p.parseNavaids(sec)...)
		case "NDB":
			p.sf.NDBs = append(p.sf.NDBs, p.parseNavaids(sec)...)
		case "AIRPORT":
			p.parseAirports(sec)
		case "FIXES":
			p.parseFixes(sec)
		case "RUNWAY":
			p.parseRunways(sec)
		case "SID":
			p.parseChains(sec, &p.sf.SIDs)
		case "STAR":
			p.parseChains(sec, &p.sf.STARs)
		case "ARTCC":
			p.parseChains(sec, &p.sf.ARTCC)
		case "ARTCC HIGH":
			p.parseChains(sec, &p.sf.ARTCCHigh)
		case "ARTCC LOW":
			p.parseChains(sec, &p.sf.ARTCCLow)
		case "GEO":
			p.parseChains(sec, &p.sf.Geo)
		case "HIGH AIRWAY":
			p.parseChains(sec, &p.sf.HighAirways)
		case "LOW AIRWAY":
			p.parseChains(sec, &p.sf.LowAirways)
		case "REGIONS":
			p.parseRegions(sec)
		case "LABELS":
			p.parseLabels(sec)
		default:
			p.sf.Skipped = append(p.sf.Skipped, sec.Name)
			for _, l := range sec.Lines {
				p.content(l)
			}
		}
	}
	st.Sink.Reset()

	return p.sf, nil
}

// content reports whether l holds an entity. Blank and comment-only lines
// do not, and colour definitions, which may appear anywhere, are consumed
// here.
func (p *sectorFileParser) content(l grammar.Line) bool {
	return !l.Blank() && !p.st.Define(l)
}

func (p *sectorFileParser) fields(l grammar.Line) []string {
	return l.Cursor(p.st.Dialect).Fields(grammar.Space)
}

// [INFO] is special since it's a fixed number of lines in sequence, each
// with a fixed meaning.
func (p *sectorFileParser) parseInfo(sec extract.Section) error {
	var lines []grammar.Line
	for _, l := range sec.Lines {
		if p.content(l) {
			lines = append(lines, l)
		}
	}
	if len(lines) < 8 {
		return sec.Header.Expected(p.st.Filename,
			fmt.Sprintf("8 lines of sector information after [INFO], found %d", len(lines)))
	}

	info := &p.sf.Info
	text := func(i int) string { return strings.TrimSpace(lines[i].Text) }
	info.Name, info.DefaultCallsign, info.DefaultAirport = text(0), text(1), text(2)

	if pos, keep, err := p.st.Position(lines[3], "center", text(3), text(4)); err != nil {
		p.st.Tolerate(lines[3], "center: %v", err)
	} else if keep {
		info.Center = pos
	}

	decimal := func(i int, v *float64) {
		var err error
		if *v, err = grammar.ParseNumber[float64](text(i)); err != nil {
			p.st.Tolerate(lines[i], "%q is not a number", text(i))
		}
	}
	decimal(5, &info.NmPerLatitude)
	decimal(6, &info.NmPerLongitude)
	decimal(7, &info.MagneticVariation)
	info.Scale = 1
	if len(lines) >= 9 {
		decimal(8, &info.Scale)
	}
	for _, l := range lines[min(9, len(lines)):] {
		p.st.Tolerate(l, "unexpected line in [INFO]")
	}
	return nil
}

// Format: name freq lat long
func (p *sectorFileParser) parseNavaids(sec extract.Section) []Navaid {
	var navaids []Navaid
	for _, l := range sec.Lines {
		if !p.content(l) {
			continue
		}
		f := p.fields(l)
		if len(f) != 4 {
			p.st.Tolerate(l, "expected 4 fields, found %d", len(f))
			continue
		}
		pos, keep, err := p.st.Position(l, f[0], f[2], f[3])
		if err != nil {
			p.st.Tolerate(l, "%v", err)
			continue
		}
		if keep {
			navaids = append(navaids, Navaid{Name: f[0], Frequency: f[1], Position: pos})
			p.st.Declare(f[0], pos)
		}
	}
	return navaids
}

// Format: name freq lat long [airspace]
func (p *sectorFileParser) parseAirports(sec extract.Section) {
	for _, l := range sec.Lines {
		if !p.content(l) {
			continue
		}
		f := p.fields(l)
		if len(f) < 4 {
			p.st.Tolerate(l, "expected at least 4 fields, found %d", len(f))
			continue
		}
		pos, keep, err := p.st.Position(l, f[0], f[2], f[3])
		if err != nil {
			p.st.Tolerate(l, "%v", err)
			continue
		}
		if keep {
			p.sf.Airports = append(p.sf.Airports, Airport{
				Name:      f[0],
				Frequency: f[1],
				Position:  pos,
				Airspace:  strings.Join(f[4:], " "),
			})
			p.st.Declare(f[0], pos)
		}
	}
}

// Format: name lat long
func (p *sectorFileParser) parseFixes(sec extract.Section) {
	for _, l := range sec.Lines {
		if !p.content(l) {
			continue
		}
		f := p.fields(l)
		if len(f) != 3 {
			p.st.Tolerate(l, "expected 3 fields, found %d", len(f))
			continue
		}
		pos, keep, err := p.st.Position(l, f[0], f[1], f[2])
		if err != nil {
			p.st.Tolerate(l, "%v", err)
			continue
		}
		if keep {
			p.sf.Fixes = append(p.sf.Fixes, Fix{Name: f[0], Position: pos})
			p.st.Declare(f[0], pos)
		}
	}
}

// Format: num num heading heading lat long lat long [airport [description]]
func (p *sectorFileParser) parseRunways(sec extract.Section) {
	for _, l := range sec.Lines {
		if !p.content(l) {
			continue
		}
		f := p.fields(l)
		if len(f) < 8 {
			p.st.Tolerate(l, "expected at least 8 fields, found %d", len(f))
			continue
		}

		var r Runway
		var err error
		r.Number = [2]string{f[0], f[1]}
		if r.Heading[0], err = grammar.ParseNumber[float64](f[2]); err != nil {
			p.st.Tolerate(l, "heading %q", f[2])
			continue
		}
		if r.Heading[1], err = grammar.ParseNumber[float64](f[3]); err != nil {
			p.st.Tolerate(l, "heading %q", f[3])
			continue
		}
		if len(f) > 8 {
			r.Airport = f[8]
			r.Description = strings.Join(f[9:], " ")
		}

		// Runway geometry is dropped on any coordinate error, whatever the
		// policy says.
		entity := strings.TrimSpace(r.Airport + " " + r.Number[0] + "/" + r.Number[1])
		ok := true
		for i := range 2 {
			pa, erra := p.st.Memo.Part(f[4+2*i])
			pb, errb := p.st.Memo.Part(f[5+2*i])
			if erra != nil || errb != nil {
				p.st.Tolerate(l, "threshold %s %s is not a coordinate", f[4+2*i], f[5+2*i])
				ok = false
				break
			}
			if r.P[i], err = coord.ParseCoordinate(pa, pb); err != nil {
				p.st.Sink.Semantic(l, entity, err, diag.Drop)
				ok = false
				break
			}
		}
		if ok {
			p.sf.Runways = append(p.sf.Runways, r)
		}
	}
}

// isLocation reports whether a and b form a position or a designator
// reference.
func (p *sectorFileParser) isLocation(a, b string) bool {
	if p.st.IsPosition(a, b) {
		return true
	}
	return a == b && a != "" && !p.st.Memo.IsPart(a)
}

// findSegment returns the index of the first token of the segment in f,
// or -1. Anything before the segment is the chain's name and at most a
// colour may follow it.
func (p *sectorFileParser) findSegment(f []string) int {
	for i := max(0, len(f)-5); i+4 <= len(f); i++ {
		if p.isLocation(f[i], f[i+1]) && p.isLocation(f[i+2], f[i+3]) {
			return i
		}
	}
	return -1
}

// parseChains handles the sections made of named segment sequences. A
// line that starts with a name opens a chain, or reopens an earlier one
// of the same name; lines without a name continue the open chain and a
// blank line closes it.
func (p *sectorFileParser) parseChains(sec extract.Section, out *[]Chain) {
	open := -1
	for _, l := range sec.Lines {
		if extract.Blank(l) {
			open = -1
			continue
		}
		if !p.content(l) {
			continue
		}

		f := p.fields(l)
		i := p.findSegment(f)
		if i == -1 {
			p.st.Tolerate(l, "no segment found in %d fields", len(f))
			continue
		}

		if name := strings.Join(f[:i], " "); name != "" || open == -1 {
			open = -1
			if name != "" {
				for j, c := range *out {
					if c.Name == name {
						open = j
						break
					}
				}
			}
			if open == -1 {
				open = len(*out)
				*out = append(*out, Chain{Name: name, Line: l.Number})
			}
		}

		chain := &(*out)[open]
		entity := chain.Name
		if entity == "" {
			entity = sec.Name
		}

		var seg Segment
		keep := true
		for j := range 2 {
			loc, ok, err := p.st.Location(l, entity, f[i+2*j], f[i+2*j+1])
			if err != nil {
				p.st.Tolerate(l, "%v", err)
				keep = false
				break
			}
			seg.P[j] = loc
			keep = keep && ok
		}
		if i+4 < len(f) {
			seg.Colour = f[i+4]
			var ok bool
			seg.RGB, ok = p.st.Colour(l, entity, seg.Colour)
			keep = keep && ok
		}
		if keep {
			chain.Segments = append(chain.Segments, seg)
		}
	}
}

// Regions are given either as
//
//	REGIONNAME <name>
//	<colour> <lat> <long>
//	 <lat> <long>
//	 ...
//
// or in the older form without the REGIONNAME line.
func (p *sectorFileParser) parseRegions(sec extract.Section) {
	name := ""
	cur := -1
	dropped := false
	for _, l := range sec.Lines {
		if !p.content(l) {
			continue
		}

		c := l.Cursor(p.st.Dialect)
		if c.Keyword("REGIONNAME") {
			name, cur, dropped = c.Rest(), -1, false
			continue
		}

		f := c.Fields(grammar.Space)
		switch len(f) {
		case 3:
			entity := name
			if entity == "" {
				entity = f[0]
			}
			pos, keep, err := p.st.Position(l, entity, f[1], f[2])
			if err != nil {
				p.st.Tolerate(l, "%v", err)
				continue
			}
			rgb, colourKeep := p.st.Colour(l, entity, f[0])
			if dropped = !colourKeep; dropped {
				cur = -1
				continue
			}
			r := Region{Name: name, Colour: f[0], RGB: rgb, Line: l.Number}
			if keep {
				r.Points = append(r.Points, pos)
			}
			cur = len(p.sf.Regions)
			p.sf.Regions = append(p.sf.Regions, r)
			name = ""

		case 2:
			if dropped {
				continue
			}
			if cur == -1 {
				p.st.Tolerate(l, "point outside of a region")
				continue
			}
			r := &p.sf.Regions[cur]
			pos, keep, err := p.st.Position(l, r.Name, f[0], f[1])
			if err != nil {
				p.st.Tolerate(l, "%v", err)
			} else if keep {
				r.Points = append(r.Points, pos)
			}

		default:
			p.st.Tolerate(l, "expected a colour and a point or a point, found %d fields", len(f))
		}
	}
}

// Format: "text" lat long [colour]
func (p *sectorFileParser) parseLabels(sec extract.Section) {
	for _, l := range sec.Lines {
		if !p.content(l) {
			continue
		}

		c := l.Cursor(p.st.Dialect)
		if !c.Expect('"') {
			p.st.Tolerate(l, "missing opening quote for label")
			continue
		}
		text := c.Field(grammar.Quote)
		if !c.Expect('"') {
			p.st.Tolerate(l, "unable to find closing quote for label")
			continue
		}
		f := c.Fields(grammar.Space)
		if len(f) != 2 && len(f) != 3 {
			p.st.Tolerate(l, "expected position and colour after label, found %d fields", len(f))
			continue
		}

		pos, keep, err := p.st.Position(l, text, f[0], f[1])
		if err != nil {
			p.st.Tolerate(l, "%v", err)
			continue
		}
		label := Label{Text: text, Position: pos}
		if len(f) == 3 {
			var ok bool
			label.Colour = f[2]
			label.RGB, ok = p.st.Colour(l, text, f[2])
			keep = keep && ok
		}
		if keep {
			p.sf.Labels = append(p.sf.Labels, label)
		}
	}
}
