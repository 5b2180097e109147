// prf/prf.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package prf parses EuroScope profile (.prf) files, which record the
// sector file, settings files, plugins and recent display files that
// make up a controller's setup, and resolves the paths they refer to.
package prf

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
)

// Setting is a "Category<tab>Key<tab>Value" line.
type Setting struct {
	Category string
	Key      string
	Value    string
	Line     int
}

// Profile holds the settings of a profile in file order. A repeated
// category and key keeps its first position and its last value.
type Profile struct {
	Settings []Setting
}

// Parse parses a profile. Lines that do not have a category and key
// separated by tabs are tolerated; the value may be empty.
func Parse(lines []grammar.Line, st *extract.State) (*Profile, error) {
	p := &Profile{}
	index := make(map[[2]string]int)
	for _, l := range lines {
		if l.Blank() {
			continue
		}
		f := l.Cursor(st.Dialect).Fields(grammar.Tab)
		if len(f) < 2 || len(f) > 3 || f[0] == "" || f[1] == "" {
			st.Tolerate(l, "expected category, key and value separated by tabs")
			continue
		}
		s := Setting{Category: f[0], Key: f[1], Line: l.Number}
		if len(f) == 3 {
			s.Value = f[2]
		}
		k := [2]string{s.Category, s.Key}
		if i, ok := index[k]; ok {
			p.Settings[i].Value, p.Settings[i].Line = s.Value, s.Line
			continue
		}
		index[k] = len(p.Settings)
		p.Settings = append(p.Settings, s)
	}
	return p, nil
}

func (p *Profile) Get(category, key string) (string, bool) {
	for _, s := range p.Settings {
		if s.Category == category && s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}

// Resolve converts a path as written in a profile to a local path.
// EuroScope writes paths with backslashes; those that start with one are
// relative to the directory holding the profile, dir, and others are
// returned as given.
func Resolve(dir, value string) string {
	v := strings.ReplaceAll(strings.TrimSpace(value), `\`, "/")
	if rel, ok := strings.CutPrefix(v, "/"); ok {
		return filepath.Join(dir, filepath.FromSlash(rel))
	}
	return filepath.FromSlash(path.Clean(v))
}

func (p *Profile) path(dir, category, key string) (string, bool) {
	v, ok := p.Get(category, key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return Resolve(dir, v), true
}

// SectorFile returns the path of the sector file.
func (p *Profile) SectorFile(dir string) (string, bool) {
	return p.path(dir, "Settings", "sector")
}

// AirspaceFile returns the path of the .ese file that accompanies the
// sector file.
func (p *Profile) AirspaceFile(dir string) (string, bool) {
	sct, ok := p.SectorFile(dir)
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(sct, filepath.Ext(sct)) + ".ese", true
}

func (p *Profile) Airways(dir string) (string, bool) {
	return p.path(dir, "Settings", "airways")
}

func (p *Profile) Symbology(dir string) (string, bool) {
	return p.path(dir, "Settings", "SettingsfileSYMBOLOGY")
}

// Recent returns the nth most recently used display settings file,
// counting from 1.
func (p *Profile) Recent(dir string, n int) (string, bool) {
	return p.path(dir, "RecentFiles", "Recent"+strconv.Itoa(n))
}

// PluginDir returns the directory of the loaded plugin whose DLL has the
// given name, e.g. "TopSky.dll". Names are compared without regard to
// case.
func (p *Profile) PluginDir(dir, dll string) (string, bool) {
	for _, s := range p.Settings {
		if s.Value == "" {
			continue
		}
		r := Resolve(dir, s.Value)
		if strings.EqualFold(filepath.Base(r), dll) {
			return filepath.Dir(r), true
		}
	}
	return "", false
}
