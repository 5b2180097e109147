// active/active.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package active parses the conditions that decide when a map or sector
// is live: always, by schedule, by runway configuration, by the
// controller's or other controllers' identifiers, by area, NOTAM or AUP
// activation, or by the state of another map.
package active

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCondition = errors.New("unknown active condition")
	// ErrBadSchedule is returned for date/time conditions that cannot be
	// parsed. Callers should treat it as fatal since a misread schedule
	// would silently show a map at the wrong time.
	ErrBadSchedule = errors.New("malformed schedule")
)

type Kind int

const (
	Always Kind = iota
	Scheduled
	RunwayConfig
	IDMatch
	CallsignMatch
	AreaMatch
	NotamMatch
	AupMatch
	MapReference
)

func (k Kind) String() string {
	return [...]string{"always", "schedule", "runway", "id", "callsign", "area", "notam", "aup", "map"}[k]
}

// Condition is a tagged variant; exactly the payload for Kind is
// non-nil. IDMatch and CallsignMatch share the ID payload and Always has
// none.
type Condition struct {
	Kind     Kind
	Schedule *Schedule        `json:",omitempty" msgpack:",omitempty"`
	Runway   *RunwayCondition `json:",omitempty" msgpack:",omitempty"`
	ID       *IDCondition     `json:",omitempty" msgpack:",omitempty"`
	Area     *AreaCondition   `json:",omitempty" msgpack:",omitempty"`
	Notam    *NotamCondition  `json:",omitempty" msgpack:",omitempty"`
	Aup      *AupCondition    `json:",omitempty" msgpack:",omitempty"`
	Map      *MapCondition    `json:",omitempty" msgpack:",omitempty"`
}

// Runway identifies a runway by airport and designator.
type Runway struct {
	ICAO       string
	Designator string
}

// ParseRunway splits a token such as "EDMO22" into its airport and
// runway designator.
func ParseRunway(s string) (Runway, error) {
	if len(s) < 5 {
		return Runway{}, fmt.Errorf("%q: runway must be an airport followed by a designator: %w", s, ErrUnknownCondition)
	}
	return Runway{ICAO: s[:4], Designator: s[4:]}, nil
}

func (r Runway) String() string { return r.ICAO + r.Designator }

// RunwayCondition matches the active arrival and departure runways. The
// exclude sets are reported as given; they are not checked against the
// sets they exclude from.
type RunwayCondition struct {
	Arrival           Set[Runway]
	ArrivalExcludes   Set[Runway]
	Departure         Set[Runway]
	DepartureExcludes Set[Runway]
}

func (r *RunwayCondition) ArrivalExcluded() []Runway   { return r.ArrivalExcludes.Items }
func (r *RunwayCondition) DepartureExcluded() []Runway { return r.DepartureExcludes.Items }

// ExcludesAreSubsets reports whether both exclude sets only name runways
// from the sets they exclude from.
func (r *RunwayCondition) ExcludesAreSubsets() bool {
	return r.Arrival.Contains(r.ArrivalExcludes) && r.Departure.Contains(r.DepartureExcludes)
}

// IDCondition matches the controller's own identifier and those of the
// other controllers online.
type IDCondition struct {
	Own            Set[string]
	OwnExcludes    Set[string]
	Online         Set[string]
	OnlineExcludes Set[string]
}

type AreaCondition struct {
	Areas    Set[string]
	Excludes Set[string]
}

type NotamCondition struct {
	ICAO  string
	Names Set[string]
}

type AupCondition struct {
	Names Set[string]
}

type MapOperator int

const (
	Same     MapOperator = iota // active when the referenced map is
	Opposite                    // active when the referenced map is not
)

type MapCondition struct {
	Operator MapOperator
	Folder   string
	Name     string
}

// Parse parses the text following "ACTIVE:".
func Parse(s string) (Condition, error) {
	s = strings.TrimSpace(s)
	f := strings.Split(s, ":")
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}

	switch strings.ToUpper(f[0]) {
	case "1":
		if len(f) != 1 {
			return Condition{}, fmt.Errorf("%q: %w", s, ErrUnknownCondition)
		}
		return Condition{Kind: Always}, nil

	case "ID", "CALLSIGN":
		if len(f) != 5 {
			return Condition{}, fmt.Errorf("%q: expected 4 fields after %s: %w", s, f[0], ErrUnknownCondition)
		}
		c := Condition{Kind: IDMatch}
		if strings.EqualFold(f[0], "CALLSIGN") {
			c.Kind = CallsignMatch
		}
		c.ID = &IDCondition{
			Own:            parseNames(f[1]),
			OwnExcludes:    parseNames(f[2]),
			Online:         parseNames(f[3]),
			OnlineExcludes: parseNames(f[4]),
		}
		return c, nil

	case "RWY":
		rc, err := parseRunwayCondition(f[1:])
		if err != nil {
			return Condition{}, fmt.Errorf("%q: %w", s, err)
		}
		return Condition{Kind: RunwayConfig, Runway: rc}, nil

	case "AREA":
		if len(f) != 2 && len(f) != 3 {
			return Condition{}, fmt.Errorf("%q: %w", s, ErrUnknownCondition)
		}
		ac := &AreaCondition{Areas: parseNames(f[1])}
		if len(f) == 3 {
			ac.Excludes = parseNames(f[2])
		}
		return Condition{Kind: AreaMatch, Area: ac}, nil

	case "NOTAM":
		if len(f) != 3 || f[1] == "" {
			return Condition{}, fmt.Errorf("%q: %w", s, ErrUnknownCondition)
		}
		return Condition{Kind: NotamMatch, Notam: &NotamCondition{ICAO: f[1], Names: parseNames(f[2])}}, nil

	case "AUP":
		if len(f) != 2 {
			return Condition{}, fmt.Errorf("%q: %w", s, ErrUnknownCondition)
		}
		return Condition{Kind: AupMatch, Aup: &AupCondition{Names: parseNames(f[1])}}, nil

	case "MAP", "!MAP":
		if len(f) != 3 || f[2] == "" {
			return Condition{}, fmt.Errorf("%q: %w", s, ErrUnknownCondition)
		}
		mc := &MapCondition{Folder: f[1], Name: f[2]}
		if f[0][0] == '!' {
			mc.Operator = Opposite
		}
		return Condition{Kind: MapReference, Map: mc}, nil
	}

	if isDigits(f[0]) && len(f[0]) > 1 {
		sched, err := ParseSchedule(f)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: Scheduled, Schedule: sched}, nil
	}

	return Condition{}, fmt.Errorf("%q: %w", s, ErrUnknownCondition)
}

// parseRunwayCondition handles both ARR:set:DEP:set and
// ARR:set:excl:DEP:set:excl.
func parseRunwayCondition(f []string) (*RunwayCondition, error) {
	if len(f) == 0 || !strings.EqualFold(f[0], "ARR") {
		return nil, fmt.Errorf("expected ARR: %w", ErrUnknownCondition)
	}
	dep := -1
	for i := 1; i < len(f); i++ {
		if strings.EqualFold(f[i], "DEP") {
			dep = i
			break
		}
	}
	arr, deps := f[1:max(dep, 1)], f[dep+1:]
	if dep == -1 || len(arr) != len(deps) || (len(arr) != 1 && len(arr) != 2) {
		return nil, fmt.Errorf("expected ARR:<runways>[:<excludes>]:DEP:<runways>[:<excludes>]: %w",
			ErrUnknownCondition)
	}

	var rc RunwayCondition
	var err error
	if rc.Arrival, err = parseSet(arr[0], ParseRunway); err != nil {
		return nil, err
	}
	if rc.Departure, err = parseSet(deps[0], ParseRunway); err != nil {
		return nil, err
	}
	if len(arr) == 2 {
		if rc.ArrivalExcludes, err = parseSet(arr[1], ParseRunway); err != nil {
			return nil, err
		}
		if rc.DepartureExcludes, err = parseSet(deps[1], ParseRunway); err != nil {
			return nil, err
		}
	}
	return &rc, nil
}

// Valid reports whether exactly the payload for the condition's kind is
// present.
func (c Condition) Valid() bool {
	n := 0
	for _, p := range []bool{c.Schedule != nil, c.Runway != nil, c.ID != nil, c.Area != nil,
		c.Notam != nil, c.Aup != nil, c.Map != nil} {
		if p {
			n++
		}
	}
	switch c.Kind {
	case Always:
		return n == 0
	case Scheduled:
		return n == 1 && c.Schedule != nil
	case RunwayConfig:
		return n == 1 && c.Runway != nil
	case IDMatch, CallsignMatch:
		return n == 1 && c.ID != nil
	case AreaMatch:
		return n == 1 && c.Area != nil
	case NotamMatch:
		return n == 1 && c.Notam != nil
	case AupMatch:
		return n == 1 && c.Aup != nil
	case MapReference:
		return n == 1 && c.Map != nil
	}
	return false
}

// String renders the condition in canonical file syntax, without the
// "ACTIVE:" prefix.
func (c Condition) String() string {
	rwy := func(r Runway) string { return r.String() }
	switch c.Kind {
	case Always:
		return "1"
	case Scheduled:
		return c.Schedule.String()
	case RunwayConfig:
		r := c.Runway
		if r.ArrivalExcludes.Kind == Unset && r.DepartureExcludes.Kind == Unset {
			return "RWY:ARR:" + r.Arrival.Format(rwy) + ":DEP:" + r.Departure.Format(rwy)
		}
		return "RWY:ARR:" + r.Arrival.Format(rwy) + ":" + r.ArrivalExcludes.Format(rwy) +
			":DEP:" + r.Departure.Format(rwy) + ":" + r.DepartureExcludes.Format(rwy)
	case IDMatch, CallsignMatch:
		prefix := "ID"
		if c.Kind == CallsignMatch {
			prefix = "CALLSIGN"
		}
		return strings.Join([]string{prefix, c.ID.Own.Format(identity), c.ID.OwnExcludes.Format(identity),
			c.ID.Online.Format(identity), c.ID.OnlineExcludes.Format(identity)}, ":")
	case AreaMatch:
		s := "AREA:" + c.Area.Areas.Format(identity)
		if c.Area.Excludes.Kind != Unset {
			s += ":" + c.Area.Excludes.Format(identity)
		}
		return s
	case NotamMatch:
		return "NOTAM:" + c.Notam.ICAO + ":" + c.Notam.Names.Format(identity)
	case AupMatch:
		return "AUP:" + c.Aup.Names.Format(identity)
	case MapReference:
		op := "MAP"
		if c.Map.Operator == Opposite {
			op = "!MAP"
		}
		return op + ":" + c.Map.Folder + ":" + c.Map.Name
	}
	return "?"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
