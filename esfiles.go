// esfiles.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package esfiles parses the text files that make up a EuroScope
// controller setup: sector files, airspace files, display settings,
// TopSky maps, symbols and settings, Symbology.txt, the ICAO reference
// tables and navigation data. Each file is parsed into a Document that
// holds the typed contents along with a diagnostic for every line that
// could not be fully understood.
package esfiles

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/brunoga/deep"
	"golang.org/x/sync/errgroup"

	"github.com/mmp/esfiles/asr"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/ese"
	"github.com/mmp/esfiles/extract"
	"github.com/mmp/esfiles/grammar"
	"github.com/mmp/esfiles/icao"
	"github.com/mmp/esfiles/log"
	"github.com/mmp/esfiles/navdata"
	"github.com/mmp/esfiles/prf"
	"github.com/mmp/esfiles/sct"
	"github.com/mmp/esfiles/style"
	"github.com/mmp/esfiles/symbology"
	"github.com/mmp/esfiles/topsky"
)

// Options control a parse. The zero value is usable.
type Options struct {
	// Filename is used in diagnostics and errors.
	Filename string
	Logger   *log.Logger
	// Policy overrides DefaultPolicy for the family.
	Policy *diag.Policy
	// Colours seeds the colour table; it is not modified. TopSky maps
	// are seeded with the built-in TopSky palette if it is nil.
	Colours *style.Table
	// Dialect overrides the family's coordinate dialect.
	Dialect *grammar.Dialect
}

// Document is the result of parsing one file. Exactly one of the
// family-specific fields is set.
type Document struct {
	Family   Family
	Filename string

	SectorFile      *sct.SectorFile          `json:",omitempty" msgpack:",omitempty"`
	AirspaceFile    *ese.AirspaceFile        `json:",omitempty" msgpack:",omitempty"`
	DisplaySettings *asr.Settings            `json:",omitempty" msgpack:",omitempty"`
	TopSkySettings  *topsky.Settings         `json:",omitempty" msgpack:",omitempty"`
	Maps            *topsky.MapsFile         `json:",omitempty" msgpack:",omitempty"`
	Symbols         *topsky.SymbolsFile      `json:",omitempty" msgpack:",omitempty"`
	Symbology       *symbology.Symbology     `json:",omitempty" msgpack:",omitempty"`
	Aircraft        map[string]icao.Aircraft `json:",omitempty" msgpack:",omitempty"`
	Airlines        map[string]icao.Airline  `json:",omitempty" msgpack:",omitempty"`
	Airports        map[string]icao.Airport  `json:",omitempty" msgpack:",omitempty"`
	Intersections   *navdata.Intersections   `json:",omitempty" msgpack:",omitempty"`
	Airways         *navdata.Airways         `json:",omitempty" msgpack:",omitempty"`
	Profile         *prf.Profile             `json:",omitempty" msgpack:",omitempty"`

	// Colours is the colour table as it stood at the end of the file.
	Colours     *style.Table
	Diagnostics []diag.Diagnostic `json:",omitempty" msgpack:",omitempty"`
}

// Parse parses text as a document of the given family. The only error
// returned is a *grammar.StructuralError, when the framing of the file
// cannot be matched; every other problem is recorded in the document's
// diagnostics.
func Parse(family Family, text string, opts Options) (*Document, error) {
	start := time.Now()

	dialect := family.Dialect()
	if opts.Dialect != nil {
		dialect = *opts.Dialect
	}
	policy := DefaultPolicy(family)
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	seed := opts.Colours
	if seed == nil && family == MapDefinitions {
		seed = topsky.Palette(true)
	}

	lg := opts.Logger.With(slog.String("file", opts.Filename), slog.String("family", family.String()))
	st := extract.NewState(opts.Filename, dialect, policy, seed, lg)
	lines := grammar.Scan(text)

	doc := &Document{Family: family, Filename: opts.Filename}
	var err error
	switch family {
	case SectorFile:
		doc.SectorFile, err = sct.Parse(lines, st)
	case AirspaceFile:
		doc.AirspaceFile, err = ese.Parse(lines, st)
	case DisplaySettings:
		doc.DisplaySettings, err = asr.Parse(lines, st)
	case TopSkySettings:
		doc.TopSkySettings, err = topsky.ParseSettings(lines, st)
	case MapDefinitions:
		doc.Maps, err = topsky.ParseMaps(lines, st)
	case SymbolDefinitions:
		doc.Symbols, err = topsky.ParseSymbols(lines, st)
	case Symbology:
		doc.Symbology, err = symbology.Parse(lines, st)
	case AircraftTable:
		doc.Aircraft, err = icao.ParseAircraft(lines, st)
	case AirlineTable:
		doc.Airlines, err = icao.ParseAirlines(lines, st)
	case AirportTable:
		doc.Airports, err = icao.ParseAirports(lines, st)
	case IntersectionTable:
		doc.Intersections, err = navdata.ParseIntersections(lines, st)
	case AirwayTable:
		doc.Airways, err = navdata.ParseAirways(lines, st)
	case Profile:
		doc.Profile, err = prf.Parse(lines, st)
	default:
		return nil, &grammar.StructuralError{Filename: opts.Filename, Expected: "a known file family"}
	}
	if err != nil {
		if lg != nil {
			lg.Warn("parse failed", slog.Any("error", err))
		}
		return nil, err
	}

	doc.Colours = st.Colours
	doc.Diagnostics = st.Sink.Diagnostics()

	var counts []any
	for _, c := range doc.Summary() {
		counts = append(counts, slog.Int(c.Name, c.N))
	}
	lg.Info("parsed",
		slog.Int("lines", len(lines)),
		slog.Int("diagnostics", len(doc.Diagnostics)),
		slog.Group("entities", counts...),
		slog.Duration("elapsed", time.Since(start)))

	return doc, nil
}

// Request is one document for ParseMany.
type Request struct {
	Family  Family
	Text    string
	Options Options
}

// Result holds the outcome of one Request.
type Result struct {
	Document *Document
	Err      error
}

// ParseMany parses the requested documents concurrently, running at most
// limit parses at once if limit is positive. Results are in the order of
// the requests. The returned error is non-nil only if ctx was cancelled;
// parse errors are reported per result.
func ParseMany(ctx context.Context, reqs []Request, limit int) ([]Result, error) {
	results := make([]Result, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, r := range reqs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].Document, results[i].Err = Parse(r.Family, r.Text, r.Options)
			return nil
		})
	}
	return results, eg.Wait()
}

// Tolerated returns the diagnostics for lines that did not match the
// grammar of their section.
func (d *Document) Tolerated() []diag.Diagnostic {
	return d.filter(func(dg diag.Diagnostic) bool { return dg.Kind == diag.Tolerated })
}

// DiagnosticsFor returns the semantic diagnostics recorded against the
// named entity.
func (d *Document) DiagnosticsFor(entity string) []diag.Diagnostic {
	return d.filter(func(dg diag.Diagnostic) bool { return dg.Entity == entity })
}

func (d *Document) filter(keep func(diag.Diagnostic) bool) []diag.Diagnostic {
	var r []diag.Diagnostic
	for _, dg := range d.Diagnostics {
		if keep(dg) {
			r = append(r, dg)
		}
	}
	return r
}

// Clone returns a deep copy of the document. Diagnostics are values and
// are copied shallowly.
func (d *Document) Clone() *Document {
	dd := *d
	dd.Diagnostics = nil
	c := deep.MustCopy(&dd)
	c.Diagnostics = slices.Clone(d.Diagnostics)
	return c
}
