// ese/ese.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package ese parses EuroScope airspace files (.ese): controller
// positions, sector geometry and ownership, coordination points and the
// SID/STAR routes used for flight plan processing.
package ese

import (
	"errors"

	"github.com/mmp/esfiles/active"
	"github.com/mmp/esfiles/coord"
)

var (
	ErrDuplicate         = errors.New("duplicate definition")
	ErrUnknownSectorLine = errors.New("unknown sector line")
)

type AirspaceFile struct {
	Positions          []Position
	SectorLines        []SectorLine
	CircleSectorLines  []CircleSectorLine
	Sectors            []Sector
	DisplaySectorLines []DisplaySectorLine `json:",omitempty" msgpack:",omitempty"`
	Agreements         []Agreement
	MSAWs              []MSAW `json:",omitempty" msgpack:",omitempty"`
	Procedures         []Procedure

	Skipped []string `json:",omitempty" msgpack:",omitempty"`
}

// Position is a controller position from [POSITIONS].
type Position struct {
	Name       string // e.g. EDMM_ALB_CTR
	Callsign   string // radio callsign, e.g. "Muenchen Radar"
	Frequency  string
	Identifier string // short identifier used by OWNER lists; unique in the file
	Middle     string
	Prefix     string
	Suffix     string
	Squawks    *SquawkRange     `json:",omitempty" msgpack:",omitempty"`
	Visibility []coord.Position `json:",omitempty" msgpack:",omitempty"`
	Line       int
}

// SquawkRange is the block of transponder codes a position assigns from.
type SquawkRange struct {
	First, Last int
}

// Display is a DISPLAY rule: the line is drawn when Controlled is owned
// and it separates Left from Right.
type Display struct {
	Controlled string
	Left       string
	Right      string
}

type SectorLine struct {
	ID       string
	Points   []coord.Position
	Displays []Display `json:",omitempty" msgpack:",omitempty"`
	Line     int
}

// CircleSectorLine is a circular sector boundary around a fix or a
// position; the radius is in nautical miles.
type CircleSectorLine struct {
	ID       string
	Center   coord.Location
	Radius   float64
	Displays []Display `json:",omitempty" msgpack:",omitempty"`
	Line     int
}

type AltOwner struct {
	Name   string
	Owners []string
}

// Guest allows a controller to handle traffic between the given airports
// inside a sector it does not own. "*" matches any airport.
type Guest struct {
	Controller string
	Departure  string
	Arrival    string
}

type Sector struct {
	ID                string
	Bottom, Top       int // feet
	Owners            []string
	AltOwners         []AltOwner `json:",omitempty" msgpack:",omitempty"`
	BorderIDs         []string
	Runways           []active.Runway `json:",omitempty" msgpack:",omitempty"` // ACTIVE runway filter
	DepartureAirports []string        `json:",omitempty" msgpack:",omitempty"`
	ArrivalAirports   []string        `json:",omitempty" msgpack:",omitempty"`
	Guests            []Guest         `json:",omitempty" msgpack:",omitempty"`
	Line              int

	// Border and Circles hold the sector lines named by BorderIDs, in
	// that order; they are filled in once the whole file has been read.
	Border  []SectorLine       `json:"-" msgpack:"-"`
	Circles []CircleSectorLine `json:"-" msgpack:"-"`
}

// DisplaySectorLine is a standalone DISPLAY_SECTORLINE rule.
type DisplaySectorLine struct {
	SectorLine string
	Display
	Line int
}

// Agreement is a COPX or FIR_COPX coordination point. Empty strings and
// zero levels stand for the "*" wildcard.
type Agreement struct {
	FIR             bool
	PreviousFix     string `json:",omitempty" msgpack:",omitempty"`
	DepartureRunway string `json:",omitempty" msgpack:",omitempty"`
	Fix             string `json:",omitempty" msgpack:",omitempty"`
	SubsequentFix   string `json:",omitempty" msgpack:",omitempty"`
	ArrivalRunway   string `json:",omitempty" msgpack:",omitempty"`
	ExitSector      string
	EntrySector     string
	Climb           int `json:",omitempty" msgpack:",omitempty"`
	Descent         int `json:",omitempty" msgpack:",omitempty"`
	Description     string
	Line            int
}

// MSAW is a minimum safe altitude warning area.
type MSAW struct {
	ID       string
	Altitude int
	Points   []coord.Position
	Line     int
}

type ProcedureKind int

const (
	SID ProcedureKind = iota
	STAR
)

func (k ProcedureKind) String() string {
	if k == SID {
		return "SID"
	}
	return "STAR"
}

// Procedure is a line from [SIDSSTARS].
type Procedure struct {
	Kind      ProcedureKind
	Airport   string
	Runway    string `json:",omitempty" msgpack:",omitempty"`
	Name      string
	Waypoints []string
	Line      int
}

// Position returns the controller position with the given identifier.
func (af *AirspaceFile) Position(id string) (Position, bool) {
	for _, p := range af.Positions {
		if p.Identifier == id {
			return p, true
		}
	}
	return Position{}, false
}

func (af *AirspaceFile) Sector(id string) (Sector, bool) {
	for _, s := range af.Sectors {
		if s.ID == id {
			return s, true
		}
	}
	return Sector{}, false
}

// ProceduresOf returns the SIDs or the STARs, in file order.
func (af *AirspaceFile) ProceduresOf(kind ProcedureKind) []Procedure {
	var p []Procedure
	for _, pr := range af.Procedures {
		if pr.Kind == kind {
			p = append(p, pr)
		}
	}
	return p
}

// AgreementsInto returns the coordination points whose entry sector is id.
func (af *AirspaceFile) AgreementsInto(id string) []Agreement {
	var a []Agreement
	for _, ag := range af.Agreements {
		if ag.EntrySector == id {
			a = append(a, ag)
		}
	}
	return a
}

// AgreementsOutOf returns the coordination points whose exit sector is id.
func (af *AirspaceFile) AgreementsOutOf(id string) []Agreement {
	var a []Agreement
	for _, ag := range af.Agreements {
		if ag.ExitSector == id {
			a = append(a, ag)
		}
	}
	return a
}

// Relink fills in each sector's Border and Circles from its BorderIDs.
// It is needed after decoding an AirspaceFile, since the joined geometry
// is not serialized; ids that name no sector line are skipped.
func (af *AirspaceFile) Relink() {
	lines := make(map[string]int)
	for i, sl := range af.SectorLines {
		lines[sl.ID] = i
	}
	circles := make(map[string]int)
	for i, c := range af.CircleSectorLines {
		circles[c.ID] = i
	}
	for i := range af.Sectors {
		s := &af.Sectors[i]
		s.Border, s.Circles = nil, nil
		for _, id := range s.BorderIDs {
			if j, ok := lines[id]; ok {
				s.Border = append(s.Border, af.SectorLines[j])
			} else if j, ok := circles[id]; ok {
				s.Circles = append(s.Circles, af.CircleSectorLines[j])
			}
		}
	}
}
