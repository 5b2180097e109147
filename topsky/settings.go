// topsky/settings.go
// Copyright(c) 2022 Matt Pharr, Apache License

package topsky

import (
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/style"
)

// Settings holds a settings file. Entries keeps every setting in file
// order, colours included; a repeated key keeps its first position and
// its last value.
type Settings struct {
	Entries []Setting
	Colours []ColourDef `json:",omitempty" msgpack:",omitempty"`
}

type Setting struct {
	Key   string
	Value string
	Line  int
}

const colourPrefix = "Color_"

// ParseSettings parses a settings file of Key=Value lines. Settings whose
// key starts with Color_ define the colour named by the rest of the key
// as r,g,b; an empty value leaves it undefined.
func ParseSettings(lines []grammar.Line, st *extract.State) (*Settings, error) {
	s := &Settings{}
	index := make(map[string]int)

	for _, l := range lines {
		if l.Blank() {
			continue
		}
		c := l.Cursor(st.Dialect)
		key, ok := c.Text(grammar.Equals)
		if !ok || !c.Expect('=') {
			st.Tolerate(l, "expected Key=Value")
			continue
		}
		value := c.Rest()
		if i, ok := index[key]; ok {
			s.Entries[i].Value, s.Entries[i].Line = value, l.Number
		} else {
			index[key] = len(s.Entries)
			s.Entries = append(s.Entries, Setting{Key: key, Value: value, Line: l.Number})
		}

		name, ok := strings.CutPrefix(key, colourPrefix)
		if !ok || value == "" {
			continue
		}
		f := strings.Split(value, ",")
		if len(f) != 3 || name == "" {
			st.Tolerate(l, "%s: expected r,g,b", key)
			continue
		}
		rgb, err := parseRGB(f[0], f[1], f[2])
		if err != nil {
			st.Tolerate(l, "%s: %v", key, err)
			continue
		}
		st.Colours.DefineRGB(name, rgb, l.Number)
		s.Colours = append(s.Colours, ColourDef{Name: name, RGB: rgb, Line: l.Number})
	}
	return s, nil
}

// Get returns the value of the named setting.
func (s *Settings) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, e := range s.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Ordered returns the settings as an ordered key/value map, for JSON
// output.
func (s *Settings) Ordered() *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, e := range s.Entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Number returns the named setting as a number, or def if it is not set
// or not numeric.
func (s *Settings) Number(key string, def float64) float64 {
	if v, ok := s.Get(key); ok {
		if f, err := grammar.ParseNumber[float64](v); err == nil {
			return f
		}
	}
	return def
}

// Coopans reports whether the COOPANS setup is selected, which is the
// case unless Setup_COOPANS is 0.
func (s *Settings) Coopans() bool {
	v, ok := s.Get("Setup_COOPANS")
	return !ok || strings.TrimSpace(v) != "0"
}

// Table returns a colour table holding the built-in colours for the
// selected setup followed by the colours the settings define, suitable
// for seeding the parse of a maps file.
func (s *Settings) Table() *style.Table {
	t := Palette(s.Coopans())
	for _, c := range s.Colours {
		t.DefineRGB(c.Name, c.RGB, c.Line)
	}
	return t
}
