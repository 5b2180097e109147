// family.go
// Copyright(c) 2022 Matt Pharr, Apache License

package esfiles

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/grammar"
)

// Family identifies the format of a document.
type Family int

const (
	SectorFile Family = iota
	AirspaceFile
	DisplaySettings
	TopSkySettings
	MapDefinitions
	SymbolDefinitions
	Symbology
	AircraftTable
	AirlineTable
	AirportTable
	IntersectionTable
	AirwayTable
	Profile
	NumFamilies
)

var familyNames = [...]string{
	SectorFile:        "sct",
	AirspaceFile:      "ese",
	DisplaySettings:   "asr",
	TopSkySettings:    "topsky-settings",
	MapDefinitions:    "topsky-maps",
	SymbolDefinitions: "topsky-symbols",
	Symbology:         "symbology",
	AircraftTable:     "icao-aircraft",
	AirlineTable:      "icao-airlines",
	AirportTable:      "icao-airports",
	IntersectionTable: "isec",
	AirwayTable:       "airway",
	Profile:           "prf",
}

func (f Family) String() string {
	if f >= 0 && f < NumFamilies {
		return familyNames[f]
	}
	return "Family(" + strconv.Itoa(int(f)) + ")"
}

// ParseFamily returns the family with the given name, as returned by
// Family.String.
func ParseFamily(s string) (Family, error) {
	for i, n := range familyNames {
		if strings.EqualFold(s, n) {
			return Family(i), nil
		}
	}
	return 0, fmt.Errorf("%q: unknown file family; expected one of %s", s, strings.Join(familyNames[:], ", "))
}

// FamilyForFilename guesses the family of a file from its name, using
// the extension where the format has its own and the conventional file
// name otherwise. A trailing ".zst" is ignored.
func FamilyForFilename(fn string) (Family, bool) {
	base := strings.ToLower(filepath.Base(fn))
	base = strings.TrimSuffix(base, ".zst")

	switch filepath.Ext(base) {
	case ".sct", ".sct2":
		return SectorFile, true
	case ".ese":
		return AirspaceFile, true
	case ".asr":
		return DisplaySettings, true
	case ".prf":
		return Profile, true
	case ".txt":
	default:
		return 0, false
	}

	name := strings.TrimSuffix(base, ".txt")
	switch {
	case strings.HasPrefix(name, "topskysettings"):
		return TopSkySettings, true
	case strings.HasPrefix(name, "topskymaps"):
		return MapDefinitions, true
	case strings.HasPrefix(name, "topskysymbols"):
		return SymbolDefinitions, true
	}
	switch name {
	case "symbology":
		return Symbology, true
	case "icao_aircraft":
		return AircraftTable, true
	case "icao_airlines":
		return AirlineTable, true
	case "icao_airports":
		return AirportTable, true
	case "isec":
		return IntersectionTable, true
	case "airway":
		return AirwayTable, true
	}
	return 0, false
}

// Dialect returns the coordinate dialect used by the family. Only sector
// files use the legacy one.
func (f Family) Dialect() grammar.Dialect {
	if f == SectorFile {
		return grammar.Legacy
	}
	return grammar.Modern
}

// DefaultPolicy returns the error policy used for the family when
// Options does not give one. TopSky maps are drawn only in the colour
// they name, so an undefined colour drops the map; elsewhere entities
// with cosmetic problems are kept.
func DefaultPolicy(f Family) diag.Policy {
	if f == MapDefinitions {
		p := diag.DefaultPolicy
		p.Colour = diag.Drop
		return p
	}
	return diag.DefaultPolicy
}
