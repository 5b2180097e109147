// cmd/esprint/profile.go
// Copyright(c) 2022 Matt Pharr, Apache License

package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmp/esfiles"
	"github.com/mmp/esfiles/loader"
	"github.com/mmp/esfiles/log"
	"github.com/mmp/esfiles/prf"
)

var topskyFiles = []string{"TopSkySettings.txt", "TopSkyMaps.txt", "TopSkySymbols.txt"}

// profileFiles returns the files named by the profile at fn that exist.
// Paths in the profile are resolved relative to its directory.
func profileFiles(fn string, lg *log.Logger) ([]string, error) {
	f, err := loader.Read(fn)
	if err != nil {
		return nil, err
	}
	doc, err := esfiles.Parse(esfiles.Profile, f.Text, esfiles.Options{Filename: f.BaseName(), Logger: lg})
	if err != nil {
		return nil, err
	}
	return candidates(doc.Profile, filepath.Dir(fn), lg), nil
}

func candidates(p *prf.Profile, dir string, lg *log.Logger) []string {
	var fns []string
	add := func(what string, fn string, ok bool) {
		if !ok {
			return
		}
		if _, err := os.Stat(fn); err != nil {
			lg.Warn("profile file not found", slog.String("what", what), slog.String("file", fn))
			return
		}
		fns = append(fns, fn)
	}

	sct, ok := p.SectorFile(dir)
	add("sector file", sct, ok)
	ese, ok := p.AirspaceFile(dir)
	add("airspace file", ese, ok)
	sym, ok := p.Symbology(dir)
	add("symbology", sym, ok)
	aw, ok := p.Airways(dir)
	add("airways", aw, ok)
	asr, ok := p.Recent(dir, 1)
	add("display settings", asr, ok)

	if ts, ok := p.PluginDir(dir, "TopSky.dll"); ok {
		for _, name := range topskyFiles {
			add("TopSky", filepath.Join(ts, name), true)
		}
	}
	return fns
}
