// topsky/topsky.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package topsky parses the files of the TopSky radar plugin: map
// definitions (TopSkyMaps.txt), pixel symbols (TopSkySymbols.txt) and the
// key/value settings file (TopSkySettings.txt).
package topsky

import (
	"errors"

	"github.com/mmp/esfiles/active"
	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/style"
)

var (
	ErrDuplicate = errors.New("duplicate definition")
	ErrNoColour  = errors.New("map has no COLOR")
)

// MapsFile holds the contents of a maps file. Maps appear in file order;
// duplicated map names are made unique with a numeric suffix.
type MapsFile struct {
	Maps       []Map
	Symbols    []draw.Symbol        `json:",omitempty" msgpack:",omitempty"`
	Colours    []ColourDef          `json:",omitempty" msgpack:",omitempty"`
	LineStyles []style.LineStyleDef `json:",omitempty" msgpack:",omitempty"`
	Overrides  []OverrideSct        `json:",omitempty" msgpack:",omitempty"`
}

// ColourDef is a COLORDEF entry or a Color_ setting.
type ColourDef struct {
	Name string
	RGB  style.RGB
	Line int
}

// OverrideSct hides a sector file map when the TopSky maps are loaded.
type OverrideSct struct {
	Folder string `json:",omitempty" msgpack:",omitempty"` // empty matches any folder
	Name   string
	Line   int
}

// Map is a single MAP definition.
type Map struct {
	Name   string
	Folder string
	// Colour is the first COLOR given for the map; later COLOR rules
	// restyle only what follows them and are recorded in each item's
	// style.
	Colour     string
	FillColour string `json:",omitempty" msgpack:",omitempty"`
	// ASRData lists the display settings files in which the map is
	// available; it is Unset when the map gives no ASRDATA rule.
	ASRData active.Set[string]
	// Active holds alternatives: the map is live when every condition of
	// any one group holds. ACTIVE starts a group and ANDACTIVE extends
	// the last one. A map with no groups is never active.
	Active         [][]active.Condition `json:",omitempty" msgpack:",omitempty"`
	Layer          int
	Zoom           float64 `json:",omitempty" msgpack:",omitempty"` // 0 if not given
	Global         bool
	ScreenSpecific bool

	Instructions []draw.Instruction
	Texts        []Text      `json:",omitempty" msgpack:",omitempty"`
	Symbols      []MapSymbol `json:",omitempty" msgpack:",omitempty"`
	Line         int
}

// Label is the text drawn next to a map symbol, offset in pixels.
type Label struct {
	Text string
	X, Y float64
}

// Font holds the text settings in effect where a TEXT or SYMBOL rule
// appeared.
type Font struct {
	Size      style.FontSize
	Style     style.FontStyle
	Alignment style.Alignment
}

type Text struct {
	Location coord.Location
	Content  string
	Colour   string
	RGB      style.RGB
	Font     Font
	Line     int
}

// MapSymbol places a named symbol, optionally labelled, at a location.
type MapSymbol struct {
	Name     string
	Location coord.Location
	Label    *Label `json:",omitempty" msgpack:",omitempty"`
	Colour   string
	RGB      style.RGB
	Font     Font
	Line     int
}

// Map returns the map with the given name.
func (mf *MapsFile) Map(name string) (Map, bool) {
	for _, m := range mf.Maps {
		if m.Name == name {
			return m, true
		}
	}
	return Map{}, false
}

// Folders returns the map names grouped by folder, with folders and the
// maps within them in file order.
func (mf *MapsFile) Folders() (folders []string, maps map[string][]string) {
	maps = make(map[string][]string)
	for _, m := range mf.Maps {
		if _, ok := maps[m.Folder]; !ok {
			folders = append(folders, m.Folder)
		}
		maps[m.Folder] = append(maps[m.Folder], m.Name)
	}
	return
}

func (mf *MapsFile) Symbol(name string) (draw.Symbol, bool) {
	return findSymbol(mf.Symbols, name)
}

// SymbolsFile holds the contents of a symbols file.
type SymbolsFile struct {
	Symbols []draw.Symbol
}

func (sf *SymbolsFile) Symbol(name string) (draw.Symbol, bool) {
	return findSymbol(sf.Symbols, name)
}

func findSymbol(s []draw.Symbol, name string) (draw.Symbol, bool) {
	for _, sym := range s {
		if sym.Name == name {
			return sym, true
		}
	}
	return draw.Symbol{}, false
}
