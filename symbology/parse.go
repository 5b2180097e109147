// symbology/parse.go
// Copyright(c) 2022 Matt Pharr, Apache License

package symbology

import (
	"fmt"
	"strings"

	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/style"
)

// Windows pen styles, as stored in the line style field of an item.
var penStyles = [...]style.LineStyleKind{style.Solid, style.Dash, style.Dot, style.DashDot, style.DashDotDot}

type stage int

const (
	wantHeader stage = iota
	wantSize
	body
	done
)

type parser struct {
	st    *extract.State
	s     *Symbology
	dec   draw.Decoder
	stage stage

	items   map[[2]string]int
	symbols map[SymbolType]int
	cur     int  // index of the open symbol, or -1
	skip    bool // inside a symbol whose type is unknown
}

// Parse parses a Symbology.txt file. The file must start with SYMBOLOGY
// and SYMBOLSIZE lines and finish with END; anything else that is
// malformed is recorded in st.Sink and skipped.
func Parse(lines []grammar.Line, st *extract.State) (*Symbology, error) {
	p := &parser{
		st:      st,
		s:       &Symbology{},
		dec:     draw.Decoder{Convention: draw.Pixel, Memo: st.Memo},
		items:   make(map[[2]string]int),
		symbols: make(map[SymbolType]int),
		cur:     -1,
	}

	for _, l := range lines {
		if l.Blank() {
			continue
		}
		text := strings.TrimSpace(l.Text)
		switch p.stage {
		case wantHeader:
			if !strings.EqualFold(text, "SYMBOLOGY") {
				return nil, l.Expected(st.Filename, "SYMBOLOGY")
			}
			p.stage = wantSize
		case wantSize:
			if !strings.EqualFold(text, "SYMBOLSIZE") {
				return nil, l.Expected(st.Filename, "SYMBOLSIZE")
			}
			p.stage = body
		case body:
			p.line(l, text)
		case done:
			st.Tolerate(l, "text after END")
		}
	}

	switch p.stage {
	case wantHeader:
		return nil, &grammar.StructuralError{Filename: st.Filename, Expected: "SYMBOLOGY"}
	case wantSize:
		return nil, &grammar.StructuralError{Filename: st.Filename, Expected: "SYMBOLSIZE"}
	case body:
		return nil, &grammar.StructuralError{Filename: st.Filename, Expected: "END"}
	}
	st.Sink.Reset()
	return p.s, nil
}

func (p *parser) line(l grammar.Line, text string) {
	if strings.EqualFold(text, "END") {
		p.closeSymbol()
		p.stage = done
		return
	}

	c := l.Cursor(p.st.Dialect)
	switch {
	case c.Keyword("SYMBOLITEM") && c.Expect(':'):
		p.symbolItem(l, strings.TrimSpace(c.Rest()))
		return
	case c.Keyword("SYMBOL") && c.Expect(':'):
		p.openSymbol(l, strings.TrimSpace(c.Rest()))
		return
	case c.Keyword("m_ClipArea") && c.Expect(':'):
		p.closeSymbol()
		v, err := grammar.ParseNumber[int](c.Rest())
		if err != nil {
			p.st.Tolerate(l, "m_ClipArea: %v", err)
			return
		}
		p.s.ClipArea = v
		return
	}

	p.closeSymbol()
	p.item(l, l.Cursor(p.st.Dialect).Fields(grammar.Colon))
}

// item handles folder:name:colour:size[:weight:style:align].
func (p *parser) item(l grammar.Line, f []string) {
	if len(f) < 4 || len(f) > 7 {
		p.st.Tolerate(l, "%d fields, expected folder:name:colour:size[:weight:style:align]", len(f))
		return
	}
	if f[0] == "" || f[1] == "" {
		p.st.Tolerate(l, "item without a folder or name")
		return
	}
	it := Item{Folder: f[0], Name: f[1], Line: l.Number}

	colour, err := grammar.ParseNumber[int](f[2])
	if err != nil || colour < 0 {
		p.st.Tolerate(l, "%s:%s: colour %q is not a packed colour", f[0], f[1], f[2])
		return
	}
	it.RGB = style.FromEuroscope(colour)
	if it.Size, err = grammar.ParseNumber[float64](f[3]); err != nil {
		p.st.Tolerate(l, "%s:%s: size: %v", f[0], f[1], err)
		return
	}

	opt := make([]int, 3)
	for i, s := range f[4:] {
		if opt[i], err = grammar.ParseNumber[int](s); err != nil {
			p.st.Tolerate(l, "%s:%s: %v", f[0], f[1], err)
			return
		}
	}
	it.Weight, it.TextAlign = opt[0], opt[2]
	if opt[1] < 0 || opt[1] >= len(penStyles) {
		entity := f[0] + ":" + f[1]
		if !p.st.Keep(l, entity, fmt.Errorf("line style %d: %w", opt[1], style.ErrUnknownStyleToken)) {
			return
		}
	} else {
		it.LineStyle = penStyles[opt[1]]
	}

	key := [2]string{it.Folder, it.Name}
	if i, ok := p.items[key]; ok {
		p.st.Sink.Semantic(l, it.Folder+":"+it.Name, ErrDuplicate, diag.Keep)
		p.s.Items[i] = it
		return
	}
	p.items[key] = len(p.s.Items)
	p.s.Items = append(p.s.Items, it)
}

func (p *parser) openSymbol(l grammar.Line, index string) {
	p.closeSymbol()
	n, err := grammar.ParseNumber[int](index)
	if err != nil {
		p.st.Tolerate(l, "SYMBOL %q: %v", index, err)
		p.skip = true
		return
	}
	t := SymbolType(n)
	if t < 0 || t >= NumSymbolTypes {
		p.st.Sink.Semantic(l, "SYMBOL "+index, ErrUnknownSymbolType, diag.Drop)
		p.skip = true
		return
	}

	p.st.Sink.Push("SYMBOL " + t.String())
	if i, ok := p.symbols[t]; ok {
		p.st.Sink.Semantic(l, t.String(), ErrDuplicate, diag.Keep)
		p.s.Symbols[i] = Symbol{Type: t, Line: l.Number}
		p.cur = i
		return
	}
	p.symbols[t] = len(p.s.Symbols)
	p.cur = len(p.s.Symbols)
	p.s.Symbols = append(p.s.Symbols, Symbol{Type: t, Line: l.Number})
}

func (p *parser) closeSymbol() {
	if p.cur >= 0 {
		p.st.Sink.Reset()
	}
	p.cur, p.skip = -1, false
}

// symbolItem handles a "SYMBOLITEM:OP a b ..." rule, whose operands are
// separated by spaces.
func (p *parser) symbolItem(l grammar.Line, rule string) {
	if p.skip {
		return
	}
	if p.cur < 0 {
		p.st.Tolerate(l, "SYMBOLITEM outside of a SYMBOL")
		return
	}
	in, err := p.dec.DecodeText(rule, grammar.Space)
	if err != nil {
		p.st.Tolerate(l, "%v", err)
		return
	}
	in.Line = l.Number
	sym := &p.s.Symbols[p.cur]
	sym.Instructions = append(sym.Instructions, in)
}
