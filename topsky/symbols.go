// topsky/symbols.go
// Copyright(c) 2022 Matt Pharr, Apache License

package topsky

import (
	"strings"

	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

// symbolBlocks collects SYMBOL (symbols file) or SYMBOLDEF (maps file)
// blocks: a header line naming the symbol followed by one drawing
// operation per line, in pixel offsets from the symbol's origin.
type symbolBlocks struct {
	st    *extract.State
	dec   draw.Decoder
	list  *[]draw.Symbol
	index map[string]int
	open  int // index into *list, or -1
}

func newSymbolBlocks(st *extract.State, list *[]draw.Symbol) *symbolBlocks {
	return &symbolBlocks{
		st:    st,
		dec:   draw.Decoder{Convention: draw.Pixel, Memo: st.Memo},
		list:  list,
		index: make(map[string]int),
		open:  -1,
	}
}

// start opens the block for the named symbol. A later block with the
// same name replaces the earlier one.
func (s *symbolBlocks) start(l grammar.Line, keyword, name string) {
	s.st.Sink.Reset()
	s.open = -1
	if name == "" {
		s.st.Tolerate(l, "%s without a name", keyword)
		return
	}
	s.st.Sink.Push(keyword + " " + name)

	if i, ok := s.index[name]; ok {
		s.st.Sink.Semantic(l, name, ErrDuplicate, diag.Keep)
		(*s.list)[i].Instructions = nil
		s.open = i
		return
	}
	s.index[name] = len(*s.list)
	s.open = len(*s.list)
	*s.list = append(*s.list, draw.Symbol{Name: name})
}

func (s *symbolBlocks) close() {
	if s.open >= 0 {
		s.open = -1
		s.st.Sink.Reset()
	}
}

// add adds the drawing operation on l to the open symbol. It reports
// false if no symbol is open or l does not start with an opcode, in
// which case the caller decides what l is.
func (s *symbolBlocks) add(l grammar.Line) bool {
	if s.open < 0 {
		return false
	}
	op, _, _ := strings.Cut(l.Text, ":")
	if _, err := draw.ParseOpcode(strings.TrimSpace(op)); err != nil {
		return false
	}

	in, err := s.dec.DecodeText(strings.TrimSpace(l.Text), grammar.Colon)
	if err != nil {
		s.st.Tolerate(l, "%v", err)
		return true
	}
	in.Line = l.Number
	sym := &(*s.list)[s.open]
	sym.Instructions = append(sym.Instructions, in)
	return true
}

// ParseSymbols parses a symbols file. Lines that are neither a SYMBOL
// header nor a drawing operation inside a symbol are tolerated.
func ParseSymbols(lines []grammar.Line, st *extract.State) (*SymbolsFile, error) {
	sf := &SymbolsFile{}
	blocks := newSymbolBlocks(st, &sf.Symbols)

	for _, l := range lines {
		if l.Blank() {
			continue
		}
		c := l.Cursor(st.Dialect)
		if c.Keyword("SYMBOL") && c.Expect(':') {
			blocks.start(l, "SYMBOL", c.Rest())
		} else if !blocks.add(l) {
			st.Tolerate(l, "expected SYMBOL or a drawing operation")
		}
	}
	blocks.close()
	st.Sink.Reset()
	return sf, nil
}
