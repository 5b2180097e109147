// symbology/symbology.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package symbology parses EuroScope's Symbology.txt, which gives the
// colour, size and line style of each display item along with the
// drawing rules for the built-in symbols.
package symbology

import (
	"errors"
	"strconv"

	"github.com/mmp/esfiles/draw"
	"github.com/mmp/esfiles/style"
)

var (
	ErrDuplicate         = errors.New("duplicate definition")
	ErrUnknownSymbolType = errors.New("unknown symbol type")
)

// SymbolType identifies one of the symbols EuroScope draws; the values
// are the indices used in SYMBOL headers.
type SymbolType int

const (
	Airport SymbolType = iota
	NDB
	VOR
	Fix
	AircraftStandby
	AircraftPrimaryOnly
	AircraftCorrModeCSecondaryOnly
	AircraftCorrModeSSecondaryOnly
	AircraftCorrModeC
	AircraftCorrModeS
	AircraftCorrModeCIdent
	AircraftCorrModeSIdent
	AircraftFlightPlanTrack
	AircraftCoasting
	HistoryDot
	GroundAircraft
	AircraftUncorrModeCSecondaryOnly
	AircraftUncorrModeSSecondaryOnly
	AircraftUncorrModeC
	AircraftUncorrModeS
	AircraftUncorrModeCIdent
	AircraftUncorrModeSIdent
	GroundVehicle
	GroundRotorcraft
	NumSymbolTypes
)

var symbolTypeNames = [...]string{
	"Airport", "NDB", "VOR", "Fix", "AircraftStandby", "AircraftPrimaryOnly",
	"AircraftCorrModeCSecondaryOnly", "AircraftCorrModeSSecondaryOnly",
	"AircraftCorrModeC", "AircraftCorrModeS", "AircraftCorrModeCIdent",
	"AircraftCorrModeSIdent", "AircraftFlightPlanTrack", "AircraftCoasting",
	"HistoryDot", "GroundAircraft", "AircraftUncorrModeCSecondaryOnly",
	"AircraftUncorrModeSSecondaryOnly", "AircraftUncorrModeC", "AircraftUncorrModeS",
	"AircraftUncorrModeCIdent", "AircraftUncorrModeSIdent", "GroundVehicle",
	"GroundRotorcraft",
}

func (t SymbolType) String() string {
	if t >= 0 && t < NumSymbolTypes {
		return symbolTypeNames[t]
	}
	return "SymbolType(" + strconv.Itoa(int(t)) + ")"
}

// Item is the display setting for one element of a folder, e.g.
// "Sector:msaw".
type Item struct {
	Folder string
	Name   string
	RGB    style.RGB
	Size   float64
	// The remaining fields are optional and zero when absent.
	Weight    int
	LineStyle style.LineStyleKind
	// TextAlign is EuroScope's numeric alignment code.
	TextAlign int
	Line      int
}

// Symbol holds the drawing rules for one symbol type, in pixel offsets
// from the symbol's position.
type Symbol struct {
	Type         SymbolType
	Instructions []draw.Instruction
	Line         int
}

// Symbology holds the contents of a Symbology.txt file. Items and
// Symbols are in file order; a repeated definition replaces the earlier
// one in place.
type Symbology struct {
	Items    []Item
	Symbols  []Symbol
	ClipArea int
}

// Item returns the setting for the given folder and item name.
func (s *Symbology) Item(folder, name string) (Item, bool) {
	for _, it := range s.Items {
		if it.Folder == folder && it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// Symbol returns the drawing rules for the given symbol type.
func (s *Symbology) Symbol(t SymbolType) (Symbol, bool) {
	for _, sym := range s.Symbols {
		if sym.Type == t {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Folders returns the distinct item folders in file order.
func (s *Symbology) Folders() []string {
	var f []string
	seen := make(map[string]bool)
	for _, it := range s.Items {
		if !seen[it.Folder] {
			seen[it.Folder] = true
			f = append(f, it.Folder)
		}
	}
	return f
}
