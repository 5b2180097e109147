// asr/asr.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package asr parses EuroScope display settings (.asr) files: the
// screen type and filters of a radar display and the list of sector
// file elements it shows.
package asr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmp/esfiles/coord"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

type DisplayType int

const (
	Radar DisplayType = iota
	GroundRadar
)

func (t DisplayType) String() string {
	if t == GroundRadar {
		return "GroundRadar"
	}
	return "Radar"
}

const (
	StandardDisplayName = "Standard ES radar screen"
	GroundDisplayName   = "Ground Radar display"
)

// SimulationMode is EuroScope's numeric simulation mode; 1 and 2 are the
// radar modes and 3 and 4 the ground modes.
type SimulationMode int

func (m SimulationMode) Ground() bool { return m == 3 || m == 4 }

// Leader is the length of the leader line drawn ahead of each target.
type Leader struct {
	Length  int
	Minutes bool // otherwise nautical miles
}

func (l Leader) String() string {
	if l.Minutes {
		return strconv.Itoa(l.Length) + "min"
	}
	return strconv.Itoa(l.Length) + "nm"
}

// PluginSetting is a "PLUGIN:<plugin>:<key>:<value>" line.
type PluginSetting struct {
	Plugin string
	Key    string
	Value  string
	Line   int
}

// Item is a sector file element shown on the display, e.g.
// "Fixes:ROKIL:name" or "Geo:EDDM TWY:". Attribute is empty for elements
// that have only one way of being drawn.
type Item struct {
	Kind      string
	Name      string
	Attribute string
	Line      int
}

// Settings holds a display settings file. Fields not given in the file
// take EuroScope's defaults.
type Settings struct {
	DisplayType      DisplayType
	DisplayTypeName  string
	NeedRadarContent bool
	GeoReferenced    bool
	SectorFile       string
	SectorTitle      string
	ShowC            bool
	ShowStandby      bool
	// Below and Above are altitude filters in feet; zero disables them.
	Below, Above    int
	Leader          Leader
	ShowLeader      bool
	TurnLeader      bool
	HistoryDots     int
	SimulationMode  SimulationMode
	DisablePanning  bool
	DisableZooming  bool
	DisplayRotation float64
	TagFamily       string
	// WindowArea gives the bottom-left and top-right corners of the
	// visible area.
	WindowArea [2]coord.Position
	Plugins    []PluginSetting `json:",omitempty" msgpack:",omitempty"`
	Items      []Item          `json:",omitempty" msgpack:",omitempty"`
}

// Defaults returns the settings EuroScope uses for a new display.
func Defaults() *Settings {
	return &Settings{
		DisplayType:      Radar,
		DisplayTypeName:  StandardDisplayName,
		NeedRadarContent: true,
		GeoReferenced:    true,
		ShowC:            true,
		Leader:           Leader{Length: 3, Minutes: true},
		HistoryDots:      5,
		SimulationMode:   1,
		TagFamily:        "Matias (built in)",
		WindowArea: [2]coord.Position{
			{Lat: 46.529122, Lon: 6.678287},
			{Lat: 50.105536, Lon: 16.5999},
		},
	}
}

// Plugin returns the value of a plugin setting.
func (s *Settings) Plugin(plugin, key string) (string, bool) {
	for _, p := range s.Plugins {
		if p.Plugin == plugin && p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Shown returns the attributes with which the named element is drawn; it
// is empty if the element is not shown.
func (s *Settings) Shown(kind, name string) []string {
	var attrs []string
	for _, it := range s.Items {
		if strings.EqualFold(it.Kind, kind) && it.Name == name {
			attrs = append(attrs, it.Attribute)
		}
	}
	return attrs
}

type setter func(s *Settings, st *extract.State, l grammar.Line, v string) error

func boolean(field func(*Settings) *bool) setter {
	return func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		switch v {
		case "0":
			*field(s) = false
		case "1":
			*field(s) = true
		default:
			return fmt.Errorf("%q: expected 0 or 1", v)
		}
		return nil
	}
}

func text(field func(*Settings) *string) setter {
	return func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		*field(s) = v
		return nil
	}
}

func integer(field func(*Settings) *int) setter {
	return func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		n, err := grammar.ParseNumber[int](v)
		if err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

var setters = map[string]setter{
	"DISPLAYTYPENAME": func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		s.DisplayTypeName = v
		s.DisplayType = Radar
		if v == GroundDisplayName {
			s.DisplayType = GroundRadar
		}
		return nil
	},
	"DISPLAYTYPENEEDRADARCONTENT": boolean(func(s *Settings) *bool { return &s.NeedRadarContent }),
	"DISPLAYTYPEGEOREFERENCED":    boolean(func(s *Settings) *bool { return &s.GeoReferenced }),
	"SECTORFILE":                  text(func(s *Settings) *string { return &s.SectorFile }),
	"SECTORTITLE":                 text(func(s *Settings) *string { return &s.SectorTitle }),
	"SHOWC":                       boolean(func(s *Settings) *bool { return &s.ShowC }),
	"SHOWSB":                      boolean(func(s *Settings) *bool { return &s.ShowStandby }),
	"BELOW":                       integer(func(s *Settings) *int { return &s.Below }),
	"ABOVE":                       integer(func(s *Settings) *int { return &s.Above }),
	"LEADER": func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		n, err := grammar.ParseNumber[int](v)
		if err != nil {
			return err
		}
		if n > 0 {
			s.Leader = Leader{Length: n}
		} else {
			s.Leader = Leader{Length: -n, Minutes: true}
		}
		return nil
	},
	"SHOWLEADER":   boolean(func(s *Settings) *bool { return &s.ShowLeader }),
	"TURNLEADER":   boolean(func(s *Settings) *bool { return &s.TurnLeader }),
	"HISTORY_DOTS": integer(func(s *Settings) *int { return &s.HistoryDots }),
	"SIMULATION_MODE": func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		n, err := grammar.ParseNumber[int](v)
		if err != nil {
			return err
		}
		s.SimulationMode = SimulationMode(n)
		return nil
	},
	"DISABLEPANNING": boolean(func(s *Settings) *bool { return &s.DisablePanning }),
	"DISABLEZOOMING": boolean(func(s *Settings) *bool { return &s.DisableZooming }),
	"DISPLAYROTATION": func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		r, err := grammar.ParseNumber[float64](v)
		if err != nil {
			return err
		}
		s.DisplayRotation = r
		return nil
	},
	"TAGFAMILY": text(func(s *Settings) *string { return &s.TagFamily }),
	"WINDOWAREA": func(s *Settings, st *extract.State, l grammar.Line, v string) error {
		f := strings.Split(v, ":")
		if len(f) != 4 {
			return fmt.Errorf("%d fields, expected lat:lon:lat:lon", len(f))
		}
		var corners [2]coord.Position
		for i := range corners {
			lat, err := grammar.ParseNumber[float64](f[2*i])
			if err != nil {
				return err
			}
			lon, err := grammar.ParseNumber[float64](f[2*i+1])
			if err != nil {
				return err
			}
			p, err := coord.New(lat, lon)
			if !st.Keep(l, "WINDOWAREA", err) {
				return nil
			}
			corners[i] = p
		}
		s.WindowArea = corners
		return nil
	},
}

// Parse parses a display settings file. Every line is either a KEY:value
// setting, a PLUGIN line or a displayed element; lines that are none of
// these are tolerated.
func Parse(lines []grammar.Line, st *extract.State) (*Settings, error) {
	s := Defaults()
	plugins := make(map[[2]string]int)

	for _, l := range lines {
		if l.Blank() {
			continue
		}
		c := l.Cursor(st.Dialect)
		key, ok := c.Text(grammar.Colon)
		if !ok || !c.Expect(':') {
			st.Tolerate(l, "expected KEY:value")
			continue
		}
		// Values may be empty, e.g. "SECTORFILE:".
		value := strings.TrimSpace(c.Remaining())

		if set, ok := setters[strings.ToUpper(key)]; ok {
			if err := set(s, st, l, value); err != nil {
				st.Tolerate(l, "%s: %v", key, err)
			}
			continue
		}

		if strings.EqualFold(key, "PLUGIN") {
			f := strings.SplitN(value, ":", 3)
			if len(f) != 3 || f[0] == "" || f[1] == "" {
				st.Tolerate(l, "expected PLUGIN:plugin:key:value")
				continue
			}
			ps := PluginSetting{Plugin: f[0], Key: f[1], Value: f[2], Line: l.Number}
			k := [2]string{f[0], f[1]}
			if i, ok := plugins[k]; ok {
				s.Plugins[i] = ps
			} else {
				plugins[k] = len(s.Plugins)
				s.Plugins = append(s.Plugins, ps)
			}
			continue
		}

		// Element names may themselves contain colons, so the attribute
		// is taken from the end.
		i := strings.LastIndexByte(value, ':')
		if i < 0 {
			st.Tolerate(l, "unknown setting %q", key)
			continue
		}
		name, attr := strings.TrimSpace(value[:i]), strings.TrimSpace(value[i+1:])
		if name == "" {
			st.Tolerate(l, "%s: element without a name", key)
			continue
		}
		s.Items = append(s.Items, Item{Kind: key, Name: name, Attribute: attr, Line: l.Number})
	}
	return s, nil
}
