// style/table.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package style implements the forward-scoped colour table shared by the
// section extractors along with the closed sets of line, font, fill and
// alignment styles that drawing rules refer to.
package style

import (
	"errors"
	"fmt"
	"slices"

	"github.com/brunoga/deep"
	"github.com/iancoleman/orderedmap"
)

var (
	ErrUndefinedColour   = errors.New("undefined colour")
	ErrUnknownStyleToken = errors.New("unknown style token")
)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// FromEuroscope decodes the packed integer colours used by sector files
// and Symbology.txt, where red is the least significant byte.
func FromEuroscope(n int) RGB {
	return RGB{R: uint8(n % 256), G: uint8(n / 256 % 256), B: uint8(n / 256 / 256 % 256)}
}

// Euroscope returns the packed integer encoding of the colour.
func (c RGB) Euroscope() int {
	return int(c.R) + int(c.G)*256 + int(c.B)*256*256
}

// Float returns the colour with each channel in [0,1].
func (c RGB) Float() [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Definition records a single colour definition in a document.
type Definition struct {
	Name  string
	Value int // packed as by RGB.Euroscope
	Line  int
}

func (d Definition) RGB() RGB { return FromEuroscope(d.Value) }

// Table maps colour names to values. Definitions are applied in document
// order and a lookup sees only the definitions made before it, so a
// document may redefine a colour part way through to restyle whatever
// follows.
type Table struct {
	// Definitions holds every definition seen so far, in document order.
	Definitions []Definition
	LineStyles  []LineStyleDef
}

func NewTable() *Table {
	return &Table{}
}

// Define adds or overrides the colour name as of the given line.
func (t *Table) Define(name string, value, line int) {
	t.Definitions = append(t.Definitions, Definition{Name: name, Value: value, Line: line})
}

// DefineRGB is a convenience wrapper around Define.
func (t *Table) DefineRGB(name string, c RGB, line int) {
	t.Define(name, c.Euroscope(), line)
}

// Resolve returns the current value of the colour name.
func (t *Table) Resolve(name string) (int, error) {
	for i := len(t.Definitions) - 1; i >= 0; i-- {
		if t.Definitions[i].Name == name {
			return t.Definitions[i].Value, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUndefinedColour)
}

// ResolveRGB is like Resolve but decodes the value.
func (t *Table) ResolveRGB(name string) (RGB, error) {
	v, err := t.Resolve(name)
	return FromEuroscope(v), err
}

// ResolveAt returns the value name had for a reference on the given
// line: that of the last definition on an earlier line.
func (t *Table) ResolveAt(name string, line int) (int, error) {
	for i := len(t.Definitions) - 1; i >= 0; i-- {
		d := t.Definitions[i]
		if d.Name == name && d.Line < line {
			return d.Value, nil
		}
	}
	return 0, fmt.Errorf("%q before line %d: %w", name, line, ErrUndefinedColour)
}

func (t *Table) Defined(name string) bool {
	_, err := t.Resolve(name)
	return err == nil
}

// Names returns the defined names in order of first definition.
func (t *Table) Names() []string {
	var names []string
	for _, d := range t.Definitions {
		if !slices.Contains(names, d.Name) {
			names = append(names, d.Name)
		}
	}
	return names
}

// Redefinitions returns the names that were defined more than once.
func (t *Table) Redefinitions() []string {
	count := make(map[string]int)
	var names []string
	for _, d := range t.Definitions {
		count[d.Name]++
		if count[d.Name] == 2 {
			names = append(names, d.Name)
		}
	}
	return names
}

// Ordered returns the final value of every colour, keyed by name in order
// of first definition.
func (t *Table) Ordered() *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, name := range t.Names() {
		v, _ := t.Resolve(name)
		m.Set(name, FromEuroscope(v))
	}
	return m
}

// Snapshot returns an independent copy of the table.
func (t *Table) Snapshot() *Table {
	if t == nil {
		return NewTable()
	}
	return deep.MustCopy(t)
}
