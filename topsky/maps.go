// topsky/maps.go
// Copyright(c) 2022 Matt Pharr, Apache License

package topsky

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmp/esfiles/active"
	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/style"
)

// DefaultFolder is the folder of maps that do not give one.
const DefaultFolder = "AUTO"

type mapsParser struct {
	st      *extract.State
	mf      *MapsFile
	dec     draw.Decoder
	symbols *symbolBlocks
	names   map[string]bool

	// The open map and whether it will be dropped when it closes.
	cur    *Map
	header grammar.Line
	drop   bool

	// Drawing state; it applies to the rules that follow it.
	colour    string
	rgb       style.RGB
	lineStyle style.LineStyle
	font      Font
	sty       *draw.Style // shared by instructions until the state changes
	lastLine  int         // index of the last instruction added by LINE, or -1

	// Points accumulated by COORD until COORDLINE or COORDPOLY.
	coords    []draw.Point
	coordLine grammar.Line
	coordsBad bool
}

// ParseMaps parses a maps file. Colour references resolve against the
// colour table as it stands when they appear; seed st.Colours with
// Palette and the settings file's colours to have those available. The
// only error returned is a *grammar.StructuralError, for a malformed
// ACTIVE schedule.
func ParseMaps(lines []grammar.Line, st *extract.State) (*MapsFile, error) {
	p := &mapsParser{
		st:    st,
		mf:    &MapsFile{},
		dec:   draw.Decoder{Convention: draw.Geographic, Memo: st.Memo, Lookup: st.Lookup},
		names: make(map[string]bool),
	}
	p.symbols = newSymbolBlocks(st, &p.mf.Symbols)

	for _, l := range lines {
		if l.Blank() {
			continue
		}
		if err := p.parseLine(l); err != nil {
			return nil, err
		}
	}
	p.closeMap()
	p.symbols.close()
	st.Sink.Reset()
	return p.mf, nil
}

// split returns the upper-cased keyword before the first colon, the text
// after it and that text split at colons.
func (p *mapsParser) split(l grammar.Line) (kw, rest string, args []string) {
	c := l.Cursor(p.st.Dialect)
	kw = strings.ToUpper(c.Field(grammar.Colon))
	if !c.Expect(':') {
		return kw, "", nil
	}
	rest = strings.TrimSpace(c.Remaining())
	return kw, rest, c.Fields(grammar.Colon)
}

func (p *mapsParser) parseLine(l grammar.Line) error {
	kw, rest, args := p.split(l)

	switch kw {
	case "MAP":
		p.symbols.close()
		p.closeMap()
		p.openMap(l, rest)
		return nil
	case "SYMBOLDEF":
		p.closeMap()
		p.symbols.start(l, kw, rest)
		return nil
	case "COLORDEF":
		p.colourDef(l, args)
		return nil
	case "LINESTYLE", "LINESTYLEDEF":
		p.lineStyleDef(l, args)
		return nil
	case "OVERRIDE_SCT_MAP", "OVERRIDE_SCT":
		p.override(l, rest)
		return nil
	}

	if p.symbols.add(l) {
		return nil
	}
	p.symbols.close()
	if p.cur == nil {
		p.st.Tolerate(l, "%q outside of a MAP or SYMBOLDEF", kw)
		return nil
	}
	return p.mapRule(l, kw, rest, args)
}

///////////////////////////////////////////////////////////////////////////
// Top-level definitions

func (p *mapsParser) colourDef(l grammar.Line, args []string) {
	if len(args) != 4 || args[0] == "" {
		p.st.Tolerate(l, "COLORDEF: expected name:r:g:b")
		return
	}
	c, err := parseRGB(args[1], args[2], args[3])
	if err != nil {
		p.st.Tolerate(l, "COLORDEF %s: %v", args[0], err)
		return
	}
	p.st.Colours.DefineRGB(args[0], c, l.Number)
	p.mf.Colours = append(p.mf.Colours, ColourDef{Name: args[0], RGB: c, Line: l.Number})
}

func (p *mapsParser) lineStyleDef(l grammar.Line, args []string) {
	if len(args) < 3 || args[0] == "" {
		p.st.Tolerate(l, "LINESTYLE: expected name:brush:hatch[:dashes...]")
		return
	}
	d := style.LineStyleDef{Name: args[0], Brush: args[1], Hatch: args[2], Line: l.Number}
	for _, f := range args[3:] {
		v, err := grammar.ParseNumber[int](f)
		if err != nil || v < 0 {
			p.st.Tolerate(l, "LINESTYLE %s: dash length %q", args[0], f)
			return
		}
		d.Dashes = append(d.Dashes, v)
	}
	p.st.Colours.DefineLineStyle(d)
	p.mf.LineStyles = append(p.mf.LineStyles, d)
}

// override handles OVERRIDE_SCT_MAP:[folder\]name.
func (p *mapsParser) override(l grammar.Line, rest string) {
	o := OverrideSct{Name: rest, Line: l.Number}
	if folder, name, ok := strings.Cut(rest, `\`); ok {
		o.Folder, o.Name = strings.TrimSpace(folder), strings.TrimSpace(name)
	}
	if o.Name == "" {
		p.st.Tolerate(l, "OVERRIDE_SCT_MAP without a map name")
		return
	}
	p.mf.Overrides = append(p.mf.Overrides, o)
}

///////////////////////////////////////////////////////////////////////////
// Maps

func (p *mapsParser) openMap(l grammar.Line, name string) {
	p.st.Sink.Reset()
	p.header = l
	p.drop = false
	if name == "" {
		p.st.Tolerate(l, "MAP without a name")
		p.drop = true
	} else if p.names[name] {
		i := 2
		for p.names[fmt.Sprintf("%s_%d", name, i)] {
			i++
		}
		name = fmt.Sprintf("%s_%d", name, i)
	}
	p.names[name] = true
	p.st.Sink.Push("MAP " + name)

	p.cur = &Map{Name: name, Folder: DefaultFolder, Line: l.Number}
	p.colour, p.rgb = "", style.RGB{}
	p.lineStyle = style.DefaultLineStyle
	p.font = Font{
		Size:      style.FontSize{Op: style.FontSizeDefault},
		Style:     style.FontStyle{Default: true},
		Alignment: style.DefaultAlignment,
	}
	p.sty = nil
	p.lastLine = -1
	p.coords, p.coordsBad = nil, false
}

func (p *mapsParser) closeMap() {
	if p.cur == nil {
		return
	}
	if len(p.coords) > 0 || p.coordsBad {
		p.st.Tolerate(p.coordLine, "COORD without a following COORDLINE or COORDPOLY")
	}
	if p.cur.Colour == "" && !p.drop {
		p.drop = !p.st.Keep(p.header, p.entity(), ErrNoColour)
	}
	if !p.drop {
		p.mf.Maps = append(p.mf.Maps, *p.cur)
	}
	p.cur = nil
	p.st.Sink.Reset()
}

func (p *mapsParser) entity() string {
	return "MAP " + p.cur.Name
}

// style returns the drawing style in effect, allocating a new one only
// when it has changed.
func (p *mapsParser) style() *draw.Style {
	if p.sty == nil {
		p.sty = &draw.Style{Colour: p.colour, RGB: p.rgb, LineStyle: p.lineStyle}
	}
	return p.sty
}

// keepMap applies the policy to a colour or style error. Dropping
// removes the whole map.
func (p *mapsParser) keepMap(l grammar.Line, err error) bool {
	if !p.st.Keep(l, p.entity(), err) {
		p.drop = true
		return false
	}
	return true
}

func (p *mapsParser) mapRule(l grammar.Line, kw, rest string, args []string) error {
	m := p.cur
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	switch kw {
	case "FOLDER":
		if rest == "" {
			p.st.Tolerate(l, "FOLDER without a name")
		} else {
			m.Folder = rest
		}

	case "COLOR":
		if arg(0) == "" || len(args) > 2 {
			p.st.Tolerate(l, "COLOR: expected colour[:fill colour]")
			return nil
		}
		c, ok := p.st.Colour(l, p.entity(), args[0])
		if !ok {
			p.drop = true
		}
		if fill := arg(1); fill != "" {
			if _, ok := p.st.Colour(l, p.entity(), fill); !ok {
				p.drop = true
			}
			if m.FillColour == "" {
				m.FillColour = fill
			}
		}
		if m.Colour == "" {
			m.Colour = args[0]
		}
		p.colour, p.rgb, p.sty = args[0], c, nil

	case "ASRDATA":
		if rest == "*" {
			m.ASRData = active.Wildcard[string]()
			return nil
		}
		var names []string
		for _, n := range strings.Split(rest, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		m.ASRData = active.ListOf(names...)

	case "ACTIVE", "ANDACTIVE":
		cond, err := active.Parse(rest)
		if errors.Is(err, active.ErrBadSchedule) {
			return l.Expected(p.st.Filename, "an ACTIVE schedule start:end:weekdays:hhmm:hhmm")
		} else if err != nil {
			p.st.Tolerate(l, "%s: %v", kw, err)
			return nil
		}
		if kw == "ACTIVE" || len(m.Active) == 0 {
			m.Active = append(m.Active, nil)
		}
		m.Active[len(m.Active)-1] = append(m.Active[len(m.Active)-1], cond)

	case "LAYER":
		v, err := grammar.ParseNumber[int](rest)
		if err != nil {
			p.st.Tolerate(l, "LAYER %q: %v", rest, err)
		} else {
			m.Layer = v
		}

	case "ZOOM":
		v, err := grammar.ParseNumber[float64](rest)
		if err != nil || v < 0 {
			p.st.Tolerate(l, "ZOOM %q", rest)
		} else {
			m.Zoom = v
		}

	case "GLOBAL":
		m.Global = true
	case "SCREEN-SPECIFIC":
		m.ScreenSpecific = true

	case "FONTSIZE":
		fs, err := style.ParseFontSize(arg(0), arg(1))
		if err != nil && !p.keepMap(l, err) {
			return nil
		}
		p.font.Size = fs

	case "FONTSTYLE":
		fs, err := style.ParseFontStyle(args)
		if err != nil {
			if !p.keepMap(l, err) {
				return nil
			}
			fs = style.FontStyle{Default: true}
		}
		p.font.Style = fs

	case "TEXTALIGN":
		a, err := style.ParseAlignment(args)
		if err != nil && !p.keepMap(l, err) {
			return nil
		}
		p.font.Alignment = a

	case "STYLE":
		width := 1
		if w := arg(1); w != "" {
			var err error
			if width, err = grammar.ParseNumber[int](w); err != nil || width < 0 {
				p.st.Tolerate(l, "STYLE width %q", w)
				return nil
			}
		}
		ls, err := p.st.Colours.LineStyle(arg(0), width)
		if err != nil && !p.keepMap(l, err) {
			return nil
		}
		p.lineStyle, p.sty = ls, nil

	case "LINE":
		p.line(l, args)
	case "COORD":
		p.coord(l, args)
	case "COORDLINE":
		p.polyline(l)
	case "COORDPOLY":
		p.coordPoly(l, arg(0))
	case "CIRCLE":
		p.circle(l, args)
	case "TEXT":
		p.text(l, rest, args)
	case "SYMBOL":
		p.symbol(l, args)

	default:
		p.st.Tolerate(l, "unknown map rule %q", kw)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Geometry

// decode decodes a geographic instruction. Coordinate errors drop the
// item; other errors tolerate the line.
func (p *mapsParser) decode(l grammar.Line, op string, args []string) (draw.Instruction, bool) {
	in, err := p.dec.Decode(op, args)
	if err != nil {
		if diag.IsCoordinateError(err) {
			p.st.Sink.Semantic(l, p.entity(), err, diag.Drop)
		} else {
			p.st.Tolerate(l, "%v", err)
		}
		return draw.Instruction{}, false
	}
	in.Line = l.Number
	in.Style = p.style()
	return in, true
}

func (p *mapsParser) add(in draw.Instruction) {
	p.cur.Instructions = append(p.cur.Instructions, in)
}

func (p *mapsParser) moveTo(pt draw.Point, line int) draw.Instruction {
	return draw.Instruction{Op: draw.MoveTo, Convention: draw.Geographic, Points: []draw.Point{pt},
		Style: p.style(), Line: line}
}

func (p *mapsParser) lineTo(pt draw.Point, line int) draw.Instruction {
	return draw.Instruction{Op: draw.LineTo, Convention: draw.Geographic, Points: []draw.Point{pt},
		Style: p.style(), Line: line}
}

// line handles LINE:from:to. Consecutive lines that share an endpoint
// and a style are joined into a single MOVETO/LINETO run.
func (p *mapsParser) line(l grammar.Line, args []string) {
	in, ok := p.decode(l, "LINE", args)
	if !ok {
		return
	}
	from, to := in.Points[0], in.Points[1]

	n := len(p.cur.Instructions)
	if p.lastLine == n-1 && n > 0 {
		last := p.cur.Instructions[n-1]
		if last.Style == in.Style && last.Points[0] == from {
			if to != from {
				p.add(p.lineTo(to, l.Number))
				p.lastLine = len(p.cur.Instructions) - 1
			}
			return
		}
	}

	p.add(p.moveTo(from, l.Number))
	if to != from {
		p.add(p.lineTo(to, l.Number))
	}
	p.lastLine = len(p.cur.Instructions) - 1
}

func (p *mapsParser) coord(l grammar.Line, args []string) {
	if len(p.coords) == 0 && !p.coordsBad {
		p.coordLine = l
	}
	in, ok := p.decode(l, "MOVETO", args)
	if !ok {
		p.coordsBad = true
		return
	}
	p.coords = append(p.coords, in.Points[0])
}

// takeCoords returns the accumulated COORD points and resets the
// accumulator. It reports false if any of them failed to decode.
func (p *mapsParser) takeCoords() ([]draw.Point, bool) {
	pts, bad := p.coords, p.coordsBad
	p.coords, p.coordsBad = nil, false
	return pts, !bad
}

func (p *mapsParser) polyline(l grammar.Line) {
	pts, ok := p.takeCoords()
	if !ok {
		return
	}
	if len(pts) < 2 {
		p.st.Tolerate(l, "COORDLINE needs at least 2 COORD points, have %d", len(pts))
		return
	}
	p.add(p.moveTo(pts[0], l.Number))
	for _, pt := range pts[1:] {
		p.add(p.lineTo(pt, l.Number))
	}
}

// coordPoly handles COORDPOLY[:fill]; without a fill the polygon is
// filled solid.
func (p *mapsParser) coordPoly(l grammar.Line, fillArg string) {
	pts, ok := p.takeCoords()
	if !ok {
		return
	}
	if len(pts) < 3 {
		p.st.Tolerate(l, "COORDPOLY needs at least 3 COORD points, have %d", len(pts))
		return
	}

	fill := style.Fill{Kind: style.FillSolid, Percent: 100}
	if fillArg != "" {
		f, err := style.ParseFill(fillArg)
		if err != nil && !p.keepMap(l, err) {
			return
		}
		if err == nil {
			fill = f
		}
	}
	sty := *p.style()
	sty.Fill = fill
	p.add(draw.Instruction{Op: draw.Polygon, Convention: draw.Geographic, Points: pts, Style: &sty,
		Line: l.Number})
}

// locationTokens returns how many of the leading tokens of f give a
// location: two for a coordinate pair, otherwise one designator.
func (p *mapsParser) locationTokens(f []string) int {
	if len(f) >= 2 && p.st.IsPosition(f[0], f[1]) {
		return 2
	}
	return 1
}

// circle handles CIRCLE:location:radius[:step]. The radius is in
// nautical miles; the step, in degrees, only guides tessellation and is
// checked but not kept.
func (p *mapsParser) circle(l grammar.Line, args []string) {
	n := p.locationTokens(args)
	extra := len(args) - n
	if extra != 1 && extra != 2 {
		p.st.Tolerate(l, "CIRCLE: expected location:radius[:step]")
		return
	}
	if extra == 2 {
		if v, err := grammar.ParseNumber[float64](args[n+1]); err != nil || v <= 0 {
			p.st.Tolerate(l, "CIRCLE step %q", args[n+1])
			return
		}
	}
	if in, ok := p.decode(l, "ELLIPSE_CIRCLE", args[:n+1]); ok {
		p.add(in)
	}
}

// location decodes the location at the start of f. It reports false if
// the rule should be skipped; the problem has then been recorded.
func (p *mapsParser) location(l grammar.Line, f []string) (coord.Location, int, bool) {
	n := p.locationTokens(f)
	if len(f) < n || f[0] == "" {
		p.st.Tolerate(l, "missing location")
		return coord.Location{}, 0, false
	}
	in, ok := p.decode(l, "SETPIXEL", f[:n])
	if !ok {
		return coord.Location{}, 0, false
	}
	return in.Points[0].Location, n, true
}

// text handles TEXT:location:content; the content may itself contain
// colons.
func (p *mapsParser) text(l grammar.Line, rest string, args []string) {
	loc, n, ok := p.location(l, args)
	if !ok {
		return
	}
	f := strings.SplitN(rest, ":", n+1)
	if len(f) <= n || strings.TrimSpace(f[n]) == "" {
		p.st.Tolerate(l, "TEXT without content")
		return
	}
	p.cur.Texts = append(p.cur.Texts, Text{
		Location: loc,
		Content:  strings.TrimSpace(f[n]),
		Colour:   p.colour,
		RGB:      p.rgb,
		Font:     p.font,
		Line:     l.Number,
	})
}

// symbol handles SYMBOL:name:location[:label:x:y].
func (p *mapsParser) symbol(l grammar.Line, args []string) {
	if len(args) < 2 || args[0] == "" {
		p.st.Tolerate(l, "SYMBOL: expected name:location[:label:x:y]")
		return
	}
	loc, n, ok := p.location(l, args[1:])
	if !ok {
		return
	}
	ms := MapSymbol{Name: args[0], Location: loc, Colour: p.colour, RGB: p.rgb, Font: p.font, Line: l.Number}

	switch label := args[1+n:]; len(label) {
	case 0:
	case 3:
		x, errx := grammar.ParseNumber[float64](label[1])
		y, erry := grammar.ParseNumber[float64](label[2])
		if errx != nil || erry != nil {
			p.st.Tolerate(l, "SYMBOL %s: label offset %q %q", args[0], label[1], label[2])
			return
		}
		ms.Label = &Label{Text: label[0], X: x, Y: y}
	default:
		p.st.Tolerate(l, "SYMBOL %s: expected label:x:y after the location", args[0])
		return
	}
	p.cur.Symbols = append(p.cur.Symbols, ms)
}

// parseRGB parses three 0-255 channel values.
func parseRGB(r, g, b string) (style.RGB, error) {
	var c [3]uint8
	for i, s := range []string{r, g, b} {
		v, err := grammar.ParseNumber[int](s)
		if err != nil || v < 0 || v > 255 {
			return style.RGB{}, fmt.Errorf("colour channel %q is not in 0-255", s)
		}
		c[i] = uint8(v)
	}
	return style.RGB{R: c[0], G: c[1], B: c[2]}, nil
}
