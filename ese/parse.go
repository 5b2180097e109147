// ese/parse.go
// Copyright(c) 2022 Matt Pharr, Apache License

package ese

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mmp/esfiles/active"
	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

type openKind int

const (
	openNone openKind = iota
	openSectorLine
	openCircle
	openSector
	openMSAW
)

type airspaceParser struct {
	st *extract.State
	af *AirspaceFile

	// Indices into the collections of af, keyed by id.
	positions, lines, circles, sectors, msaws map[string]int

	// Geometry rejected by a coordinate error; removed at the end.
	badLines, badMSAWs map[string]bool

	borders     map[string]grammar.Line // sector id -> its last BORDER line
	displayedAt []grammar.Line          // parallel to af.DisplaySectorLines

	// The entity that COORD, DISPLAY and the sector settings apply to.
	kind openKind
	cur  int
}

// Parse parses the lines of an airspace file. Sector borders are joined
// to their sector lines once every section has been read, so BORDER may
// name lines that are defined further down. The only error returned is a
// *grammar.StructuralError.
func Parse(lines []grammar.Line, st *extract.State) (*AirspaceFile, error) {
	sections, err := extract.Split(lines, st.Filename)
	if err != nil {
		return nil, err
	}

	p := &airspaceParser{
		st:        st,
		af:        &AirspaceFile{},
		positions: make(map[string]int),
		lines:     make(map[string]int),
		circles:   make(map[string]int),
		sectors:   make(map[string]int),
		msaws:     make(map[string]int),
		badLines:  make(map[string]bool),
		badMSAWs:  make(map[string]bool),
		borders:   make(map[string]grammar.Line),
	}
	for _, sec := range sections {
		st.Sink.Reset()
		if sec.Name != "" {
			st.Sink.Push(sec.Name)
		}

		switch sec.Name {
		case "":
			for _, l := range sec.Lines {
				if !l.Blank() {
					st.Tolerate(l, "text before the first section")
				}
			}
		case "POSITIONS":
			p.parsePositions(sec)
		case "AIRSPACE":
			p.parseAirspace(sec)
		case "SIDSSTARS":
			p.parseProcedures(sec)
		default:
			p.af.Skipped = append(p.af.Skipped, sec.Name)
		}
	}

	st.Sink.Reset()
	st.Sink.Push("AIRSPACE")
	p.join()
	st.Sink.Reset()

	return p.af, nil
}

func (p *airspaceParser) record(l grammar.Line) []string {
	return l.Cursor(p.st.Dialect).Fields(grammar.Colon)
}

// slot returns the index at which the entity id is to be stored: that of
// an earlier definition, which the new one replaces, or n.
func (p *airspaceParser) slot(m map[string]int, l grammar.Line, what, id string, n int) int {
	if i, ok := m[id]; ok {
		p.st.Sink.Semantic(l, id, fmt.Errorf("%s %s: %w", what, id, ErrDuplicate), diag.Keep)
		return i
	}
	m[id] = n
	return n
}

func store[T any](s *[]T, i int, v T) {
	if i == len(*s) {
		*s = append(*s, v)
	} else {
		(*s)[i] = v
	}
}

func nonEmpty(f []string) []string {
	return slices.DeleteFunc(slices.Clone(f), func(s string) bool { return s == "" })
}

func wildcard(s string) string {
	if s == "*" {
		return ""
	}
	return s
}

///////////////////////////////////////////////////////////////////////////
// [POSITIONS]

// Format: name:callsign:frequency:identifier:middle:prefix:suffix:-:-:
// squawk-first:squawk-last[:lat:lon...]
func (p *airspaceParser) parsePositions(sec extract.Section) {
	for _, l := range sec.Lines {
		if l.Blank() {
			continue
		}
		f := p.record(l)
		if len(f) < 9 {
			p.st.Tolerate(l, "expected at least 9 fields, found %d", len(f))
			continue
		}
		pos := Position{
			Name:       f[0],
			Callsign:   f[1],
			Frequency:  f[2],
			Identifier: f[3],
			Middle:     f[4],
			Prefix:     f[5],
			Suffix:     f[6],
			Line:       l.Number,
		}
		if pos.Identifier == "" {
			p.st.Tolerate(l, "position %s has no identifier", pos.Name)
			continue
		}

		rest := f[9:]
		if len(rest) == 1 {
			p.st.Tolerate(l, "incomplete squawk range")
			continue
		} else if len(rest) >= 2 {
			sq, err := parseSquawks(rest[0], rest[1])
			if err != nil {
				p.st.Tolerate(l, "%v", err)
				continue
			}
			pos.Squawks = sq
			rest = rest[2:]
		}

		for len(rest) > 0 && rest[len(rest)-1] == "" {
			rest = rest[:len(rest)-1]
		}
		if len(rest)%2 != 0 {
			p.st.Tolerate(l, "visibility points: %d coordinate parts", len(rest))
			continue
		}
		ok := true
		for i := 0; i < len(rest); i += 2 {
			vp, keep, err := p.st.Position(l, pos.Identifier, rest[i], rest[i+1])
			if err != nil {
				p.st.Tolerate(l, "visibility point: %v", err)
				ok = false
				break
			}
			if keep {
				pos.Visibility = append(pos.Visibility, vp)
			}
		}
		if ok {
			store(&p.af.Positions, p.slot(p.positions, l, "position", pos.Identifier, len(p.af.Positions)), pos)
		}
	}
}

// parseSquawks returns nil if either end is "-" or empty.
func parseSquawks(first, last string) (*SquawkRange, error) {
	if first == "" || first == "-" || last == "" || last == "-" {
		return nil, nil
	}
	a, err := grammar.ParseNumber[int](first)
	if err != nil {
		return nil, fmt.Errorf("squawk %q: %w", first, err)
	}
	b, err := grammar.ParseNumber[int](last)
	if err != nil {
		return nil, fmt.Errorf("squawk %q: %w", last, err)
	}
	return &SquawkRange{First: a, Last: b}, nil
}

///////////////////////////////////////////////////////////////////////////
// [AIRSPACE]

// enter makes the entity at index i of the given kind the target of the
// lines that follow.
func (p *airspaceParser) enter(kind openKind, i int, ctx string) {
	for p.st.Sink.CurrentDepth() > 1 {
		p.st.Sink.Pop()
	}
	p.kind, p.cur = kind, i
	if ctx != "" {
		p.st.Sink.Push(ctx)
	}
}

func (p *airspaceParser) parseAirspace(sec extract.Section) {
	p.enter(openNone, -1, "")
	for _, l := range sec.Lines {
		if l.Blank() {
			continue
		}
		f := p.record(l)
		if len(f) == 0 {
			continue
		}
		kw, args := strings.ToUpper(f[0]), f[1:]

		switch kw {
		case "SECTORLINE":
			p.sectorLine(l, args)
		case "CIRCLE_SECTORLINE":
			p.circleSectorLine(l, args)
		case "COORD":
			p.coord(l, args)
		case "DISPLAY":
			p.display(l, args)
		case "SECTOR":
			p.sector(l, args)
		case "OWNER", "ALTOWNER", "BORDER", "ACTIVE", "DEPAPT", "ARRAPT", "GUEST":
			p.sectorSetting(l, kw, args)
		case "DISPLAY_SECTORLINE":
			p.enter(openNone, -1, "")
			if len(args) != 4 || args[0] == "" {
				p.st.Tolerate(l, "DISPLAY_SECTORLINE: expected 4 fields, found %d", len(args))
				continue
			}
			p.af.DisplaySectorLines = append(p.af.DisplaySectorLines, DisplaySectorLine{
				SectorLine: args[0],
				Display:    Display{Controlled: args[1], Left: args[2], Right: args[3]},
				Line:       l.Number,
			})
			p.displayedAt = append(p.displayedAt, l)
		case "COPX", "FIR_COPX":
			p.enter(openNone, -1, "")
			p.agreement(l, kw == "FIR_COPX", args)
		case "MSAW":
			p.msaw(l, args)
		default:
			p.enter(openNone, -1, "")
			p.st.Tolerate(l, "unknown airspace record %q", f[0])
		}
	}
	p.enter(openNone, -1, "")
}

// point decodes a vertex of sector geometry. Lexical failures tolerate
// the line; a coordinate that decodes but cannot be placed is reported
// as dropping entity, whatever the policy.
func (p *airspaceParser) point(l grammar.Line, entity, a, b string) (pos coord.Position, ok, dropped bool) {
	pa, erra := p.st.Memo.Part(a)
	pb, errb := p.st.Memo.Part(b)
	if erra != nil || errb != nil {
		p.st.Tolerate(l, "%q %q is not a coordinate", a, b)
		return coord.Position{}, false, false
	}
	pos, err := coord.ParseCoordinate(pa, pb)
	if err != nil {
		p.st.Sink.Semantic(l, entity, err, diag.Drop)
		return coord.Position{}, false, true
	}
	return pos, true, false
}

// Format: SECTORLINE:id
func (p *airspaceParser) sectorLine(l grammar.Line, args []string) {
	if len(args) != 1 || args[0] == "" {
		p.enter(openNone, -1, "")
		p.st.Tolerate(l, "SECTORLINE: expected an id")
		return
	}
	id := args[0]
	i := p.slot(p.lines, l, "SECTORLINE", id, len(p.af.SectorLines))
	store(&p.af.SectorLines, i, SectorLine{ID: id, Line: l.Number})
	delete(p.badLines, id)
	p.enter(openSectorLine, i, "SECTORLINE "+id)
}

// Format: CIRCLE_SECTORLINE:id:fix:radius or
// CIRCLE_SECTORLINE:id:lat:lon:radius
func (p *airspaceParser) circleSectorLine(l grammar.Line, args []string) {
	p.enter(openNone, -1, "")
	if (len(args) != 3 && len(args) != 4) || args[0] == "" {
		p.st.Tolerate(l, "CIRCLE_SECTORLINE: expected 3 or 4 fields, found %d", len(args))
		return
	}

	c := CircleSectorLine{ID: args[0], Line: l.Number}
	if len(args) == 3 {
		c.Center = coord.Location{Name: args[1]}
		c.Center.Position, c.Center.Resolved = p.st.Lookup(args[1])
	} else {
		pos, ok, _ := p.point(l, c.ID, args[1], args[2])
		if !ok {
			return
		}
		c.Center = coord.At(pos)
	}
	var err error
	if c.Radius, err = grammar.ParseNumber[float64](args[len(args)-1]); err != nil {
		p.st.Tolerate(l, "CIRCLE_SECTORLINE %s: radius %q", c.ID, args[len(args)-1])
		return
	}

	i := p.slot(p.circles, l, "CIRCLE_SECTORLINE", c.ID, len(p.af.CircleSectorLines))
	store(&p.af.CircleSectorLines, i, c)
	p.enter(openCircle, i, "CIRCLE_SECTORLINE "+c.ID)
}

// Format: COORD:lat:lon
func (p *airspaceParser) coord(l grammar.Line, args []string) {
	if len(args) != 2 {
		p.st.Tolerate(l, "COORD: expected 2 fields, found %d", len(args))
		return
	}
	switch p.kind {
	case openSectorLine:
		sl := &p.af.SectorLines[p.cur]
		if pos, ok, dropped := p.point(l, sl.ID, args[0], args[1]); ok {
			sl.Points = append(sl.Points, pos)
		} else if dropped {
			p.badLines[sl.ID] = true
		}
	case openMSAW:
		m := &p.af.MSAWs[p.cur]
		if pos, ok, dropped := p.point(l, m.ID, args[0], args[1]); ok {
			m.Points = append(m.Points, pos)
		} else if dropped {
			p.badMSAWs[m.ID] = true
		}
	default:
		p.st.Tolerate(l, "COORD outside of a SECTORLINE or MSAW")
	}
}

// Format: DISPLAY:controlled:left:right
func (p *airspaceParser) display(l grammar.Line, args []string) {
	if len(args) != 3 {
		p.st.Tolerate(l, "DISPLAY: expected 3 fields, found %d", len(args))
		return
	}
	d := Display{Controlled: args[0], Left: args[1], Right: args[2]}
	switch p.kind {
	case openSectorLine:
		sl := &p.af.SectorLines[p.cur]
		sl.Displays = append(sl.Displays, d)
	case openCircle:
		c := &p.af.CircleSectorLines[p.cur]
		c.Displays = append(c.Displays, d)
	default:
		p.st.Tolerate(l, "DISPLAY outside of a sector line")
	}
}

// Format: SECTOR:id:bottom:top
func (p *airspaceParser) sector(l grammar.Line, args []string) {
	p.enter(openNone, -1, "")
	if len(args) != 3 || args[0] == "" {
		p.st.Tolerate(l, "SECTOR: expected id, bottom and top, found %d fields", len(args))
		return
	}
	s := Sector{ID: args[0], Line: l.Number}
	var err error
	if s.Bottom, err = grammar.ParseNumber[int](args[1]); err != nil {
		p.st.Tolerate(l, "SECTOR %s: bottom %q", s.ID, args[1])
		return
	}
	if s.Top, err = grammar.ParseNumber[int](args[2]); err != nil {
		p.st.Tolerate(l, "SECTOR %s: top %q", s.ID, args[2])
		return
	}

	i := p.slot(p.sectors, l, "SECTOR", s.ID, len(p.af.Sectors))
	store(&p.af.Sectors, i, s)
	delete(p.borders, s.ID)
	p.enter(openSector, i, "SECTOR "+s.ID)
}

func (p *airspaceParser) sectorSetting(l grammar.Line, kw string, args []string) {
	if p.kind != openSector {
		p.st.Tolerate(l, "%s outside of a SECTOR", kw)
		return
	}
	s := &p.af.Sectors[p.cur]
	names := nonEmpty(args)

	switch kw {
	case "OWNER":
		if len(names) == 0 {
			p.st.Tolerate(l, "OWNER: no positions given")
			return
		}
		s.Owners = names
	case "ALTOWNER":
		if len(args) < 2 || args[0] == "" {
			p.st.Tolerate(l, "ALTOWNER: expected a name and positions")
			return
		}
		s.AltOwners = append(s.AltOwners, AltOwner{Name: args[0], Owners: nonEmpty(args[1:])})
	case "BORDER":
		if len(names) == 0 {
			p.st.Tolerate(l, "BORDER: no sector lines given")
			return
		}
		s.BorderIDs = append(s.BorderIDs, names...)
		p.borders[s.ID] = l
	case "ACTIVE":
		if len(args) != 2 || args[0] == "" || args[1] == "" {
			p.st.Tolerate(l, "ACTIVE: expected airport and runway, found %d fields", len(args))
			return
		}
		s.Runways = append(s.Runways, active.Runway{ICAO: args[0], Designator: args[1]})
	case "DEPAPT":
		s.DepartureAirports = append(s.DepartureAirports, names...)
	case "ARRAPT":
		s.ArrivalAirports = append(s.ArrivalAirports, names...)
	case "GUEST":
		if len(args) != 3 {
			p.st.Tolerate(l, "GUEST: expected 3 fields, found %d", len(args))
			return
		}
		s.Guests = append(s.Guests, Guest{Controller: args[0], Departure: args[1], Arrival: args[2]})
	}
}

// Format: COPX:previous:deprwy:fix:next:arrrwy:exit:entry:climb:descent:description
func (p *airspaceParser) agreement(l grammar.Line, fir bool, args []string) {
	if len(args) != 10 {
		p.st.Tolerate(l, "coordination point: expected 10 fields, found %d", len(args))
		return
	}
	a := Agreement{
		FIR:             fir,
		PreviousFix:     wildcard(args[0]),
		DepartureRunway: wildcard(args[1]),
		Fix:             wildcard(args[2]),
		SubsequentFix:   wildcard(args[3]),
		ArrivalRunway:   wildcard(args[4]),
		ExitSector:      args[5],
		EntrySector:     args[6],
		Description:     args[9],
		Line:            l.Number,
	}
	for i, v := range []*int{&a.Climb, &a.Descent} {
		s := wildcard(args[7+i])
		if s == "" {
			continue
		}
		var err error
		if *v, err = grammar.ParseNumber[int](s); err != nil {
			p.st.Tolerate(l, "coordination point: level %q", s)
			return
		}
	}
	p.af.Agreements = append(p.af.Agreements, a)
}

// Format: MSAW:id:altitude, followed by its COORD lines
func (p *airspaceParser) msaw(l grammar.Line, args []string) {
	p.enter(openNone, -1, "")
	if len(args) != 2 || args[0] == "" {
		p.st.Tolerate(l, "MSAW: expected id and altitude, found %d fields", len(args))
		return
	}
	alt, err := grammar.ParseNumber[int](args[1])
	if err != nil {
		p.st.Tolerate(l, "MSAW %s: altitude %q", args[0], args[1])
		return
	}
	i := p.slot(p.msaws, l, "MSAW", args[0], len(p.af.MSAWs))
	store(&p.af.MSAWs, i, MSAW{ID: args[0], Altitude: alt, Line: l.Number})
	delete(p.badMSAWs, args[0])
	p.enter(openMSAW, i, "MSAW "+args[0])
}

// join resolves each sector's BORDER ids and drops the geometry that was
// rejected while parsing.
func (p *airspaceParser) join() {
	usable := func(id string) bool {
		_, ok := p.lines[id]
		return ok && !p.badLines[id]
	}

	for i := range p.af.Sectors {
		s := &p.af.Sectors[i]
		s.Border, s.Circles = nil, nil
		for _, id := range s.BorderIDs {
			if usable(id) {
				s.Border = append(s.Border, p.af.SectorLines[p.lines[id]])
			} else if j, ok := p.circles[id]; ok {
				s.Circles = append(s.Circles, p.af.CircleSectorLines[j])
			} else {
				p.st.Sink.Semantic(p.borders[s.ID], s.ID, fmt.Errorf("border %s: %w", id, ErrUnknownSectorLine), diag.Keep)
			}
		}
	}

	for i, ds := range p.af.DisplaySectorLines {
		if _, ok := p.circles[ds.SectorLine]; !ok && !usable(ds.SectorLine) {
			p.st.Sink.Semantic(p.displayedAt[i], ds.SectorLine,
				fmt.Errorf("DISPLAY_SECTORLINE %s: %w", ds.SectorLine, ErrUnknownSectorLine), diag.Keep)
		}
	}

	p.af.SectorLines = slices.DeleteFunc(p.af.SectorLines, func(sl SectorLine) bool { return p.badLines[sl.ID] })
	p.af.MSAWs = slices.DeleteFunc(p.af.MSAWs, func(m MSAW) bool { return p.badMSAWs[m.ID] })
}

///////////////////////////////////////////////////////////////////////////
// [SIDSSTARS]

// Format: SID|STAR:airport:runway:name:waypoint waypoint ...
func (p *airspaceParser) parseProcedures(sec extract.Section) {
	for _, l := range sec.Lines {
		if l.Blank() {
			continue
		}
		f := p.record(l)
		if len(f) != 4 && len(f) != 5 {
			p.st.Tolerate(l, "expected 5 fields, found %d", len(f))
			continue
		}
		pr := Procedure{Airport: f[1], Runway: f[2], Name: f[3], Line: l.Number}
		switch strings.ToUpper(f[0]) {
		case "SID":
			pr.Kind = SID
		case "STAR":
			pr.Kind = STAR
		default:
			p.st.Tolerate(l, "%q is neither SID nor STAR", f[0])
			continue
		}
		if pr.Airport == "" || pr.Name == "" {
			p.st.Tolerate(l, "%s without airport or name", pr.Kind)
			continue
		}
		if len(f) == 5 {
			pr.Waypoints = strings.Fields(f[4])
		}
		p.af.Procedures = append(p.af.Procedures, pr)
	}
}
