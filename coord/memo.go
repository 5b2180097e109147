// coord/memo.go
// Copyright(c) 2022 Matt Pharr, Apache License

package coord

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmp/esfiles/grammar"
)

// Memo caches decoded coordinate parts for the duration of a single
// parse. Sector files repeat the same segment endpoints many times over,
// so most lookups hit.
type Memo struct {
	dialect grammar.Dialect
	parts   *lru.Cache[string, grammar.Part]
}

const defaultMemoSize = 4096

// NewMemo returns a memo for coordinate parts in the given dialect. A
// size of zero or less selects a default.
func NewMemo(d grammar.Dialect, size int) *Memo {
	if size <= 0 {
		size = defaultMemoSize
	}
	c, err := lru.New[string, grammar.Part](size)
	if err != nil {
		// Only possible for a non-positive size.
		panic(err)
	}
	return &Memo{dialect: d, parts: c}
}

func (m *Memo) Dialect() grammar.Dialect { return m.dialect }

// Part parses tok as a coordinate part, consulting the cache first.
// Failures are not cached.
func (m *Memo) Part(tok string) (grammar.Part, error) {
	if p, ok := m.parts.Get(tok); ok {
		return p, nil
	}
	p, err := grammar.ParsePart(tok, m.dialect)
	if err != nil {
		return grammar.Part{}, err
	}
	m.parts.Add(tok, p)
	return p, nil
}

// IsPart reports whether tok parses as a coordinate part.
func (m *Memo) IsPart(tok string) bool {
	_, err := m.Part(tok)
	return err == nil
}

// Position parses a pair of coordinate tokens.
func (m *Memo) Position(a, b string) (Position, error) {
	pa, err := m.Part(a)
	if err != nil {
		return Position{}, err
	}
	pb, err := m.Part(b)
	if err != nil {
		return Position{}, err
	}
	return ParseCoordinate(pa, pb)
}
