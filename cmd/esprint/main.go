// cmd/esprint/main.go
// Copyright(c) 2022 Matt Pharr, Apache License

/*
esprint parses EuroScope setup files and prints their contents.

Usage:

	esprint [flags] [filenames...]

The file family is found from each file's name unless -family is given.
Files ending in .zst are decompressed first. With -profile, the sector
file, airspace file, Symbology.txt, airway.txt, most recent display
settings file and TopSky files named by a EuroScope profile are added to
the files to print.

Flags default to the values of the ESPRINT_LOGLEVEL, ESPRINT_LOGDIR,
ESPRINT_FORMAT and ESPRINT_JOBS environment variables, which may be set
in a .env file in the current directory.

Diagnostics are written to standard error. The exit status is 1 if a
file could not be read or parsed and, with -strict, 2 if any file had
diagnostics.
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goforj/godump"
	"github.com/joho/godotenv"
	geojson "github.com/paulmach/go.geojson"

	"github.com/mmp/esfiles"
	"github.com/mmp/esfiles/diag"
	"github.com/mmp/esfiles/export"
	"github.com/mmp/esfiles/loader"
	"github.com/mmp/esfiles/log"
	"github.com/mmp/esfiles/style"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load(".env")

	jobs, err := strconv.Atoi(getenv("ESPRINT_JOBS", "0"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ESPRINT_JOBS: %v\n", err)
		jobs = 0
	}

	family := flag.String("family", "", "parse all files as this family (sct, ese, asr, topsky-maps, ...)")
	format := flag.String("format", getenv("ESPRINT_FORMAT", "text"), "output format: text, json, geojson, msgpack or dump")
	output := flag.String("o", "", "write output to this file rather than standard output")
	flag.IntVar(&jobs, "j", jobs, "number of files to parse concurrently (0 for no limit)")
	logLevel := flag.String("loglevel", getenv("ESPRINT_LOGLEVEL", "info"), "logging level: debug, info, warn, error")
	logDir := flag.String("logdir", getenv("ESPRINT_LOGDIR", ""), "log file directory")
	strict := flag.Bool("strict", false, "drop every entity with a semantic error and exit with status 2 if there were any")
	colours := flag.Bool("colours", false, "print each file's final colour table as JSON")
	profile := flag.String("profile", "", "also print the files named by this EuroScope profile")
	flag.Parse()

	lg := log.New(*logLevel, *logDir, nil)

	var force *esfiles.Family
	if *family != "" {
		f, err := esfiles.ParseFamily(*family)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		force = &f
	}

	filenames := flag.Args()
	if *profile != "" {
		fns, err := profileFiles(*profile, lg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", *profile, err)
			os.Exit(1)
		}
		filenames = append(filenames, fns...)
	}
	if len(filenames) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	var policy *diag.Policy
	if *strict {
		p := diag.Strict
		policy = &p
	}

	reqs, failed := requests(filenames, force, policy, lg)
	results, err := esfiles.ParseMany(context.Background(), reqs, jobs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var docs []*esfiles.Document
	haveDiagnostics := false
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintln(os.Stderr, r.Err)
			lg.Error("parse failed", slog.String("file", reqs[i].Options.Filename), slog.Any("error", r.Err))
			failed = true
			continue
		}
		for _, d := range r.Document.Diagnostics {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		haveDiagnostics = haveDiagnostics || len(r.Document.Diagnostics) > 0
		docs = append(docs, r.Document)
	}

	w := io.Writer(os.Stdout)
	var out *os.File
	if *output != "" {
		if out, err = os.Create(*output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		w = out
	}

	if *colours {
		err = writeColours(w, docs)
	} else {
		err = write(w, *format, *output, docs)
	}
	if out != nil {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		lg.Error("write failed", slog.Any("error", err))
		failed = true
	}

	switch {
	case failed:
		os.Exit(1)
	case *strict && haveDiagnostics:
		os.Exit(2)
	}
}

// requests loads the files and prepares their parse requests. TopSky
// settings files are parsed up front so that their colours can seed the
// parse of the maps files given with them.
func requests(filenames []string, force *esfiles.Family, policy *diag.Policy, lg *log.Logger) ([]esfiles.Request, bool) {
	var reqs []esfiles.Request
	var seed *style.Table
	failed := false
	for _, fn := range filenames {
		f, err := loader.Read(fn)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
			continue
		}
		var fam esfiles.Family
		ok := true
		if force != nil {
			fam = *force
		} else {
			fam, ok = esfiles.FamilyForFilename(fn)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "%s: unable to determine the file family; use -family\n", fn)
			failed = true
			continue
		}
		lg.Debug("loaded", slog.String("file", fn), slog.String("family", fam.String()),
			slog.String("encoding", f.Encoding.String()), slog.Bool("compressed", f.Compressed))

		if fam == esfiles.TopSkySettings && seed == nil {
			doc, err := esfiles.Parse(fam, f.Text, esfiles.Options{Filename: f.BaseName(), Logger: lg, Policy: policy})
			if err == nil {
				seed = doc.TopSkySettings.Table()
			}
		}
		reqs = append(reqs, esfiles.Request{
			Family: fam,
			Text:   f.Text,
			Options: esfiles.Options{
				Filename: f.BaseName(),
				Logger:   lg,
				Policy:   policy,
			},
		})
	}

	if seed != nil {
		for i := range reqs {
			if reqs[i].Family == esfiles.MapDefinitions {
				reqs[i].Options.Colours = seed
			}
		}
	}
	return reqs, failed
}

func write(w io.Writer, format, output string, docs []*esfiles.Document) error {
	switch format {
	case "text":
		for _, doc := range docs {
			if doc.SectorFile != nil {
				doc.SectorFile.Write(w, doc.Colours)
			} else {
				doc.WriteSummary(w)
			}
		}
		return nil

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
		return nil

	case "geojson":
		fc := geojson.NewFeatureCollection()
		for _, doc := range docs {
			fc.Features = append(fc.Features, export.GeoJSON(doc).Features...)
		}
		b, err := fc.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err

	case "msgpack":
		compress := filepath.Ext(output) == ".zst"
		for _, doc := range docs {
			if err := export.WriteMsgpack(w, doc, compress); err != nil {
				return err
			}
		}
		return nil

	case "dump":
		for _, doc := range docs {
			godump.Fdump(w, doc)
		}
		return nil

	default:
		return fmt.Errorf("%s: unknown output format", format)
	}
}

func writeColours(w io.Writer, docs []*esfiles.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, doc := range docs {
		if doc.Colours == nil {
			continue
		}
		if err := enc.Encode(map[string]any{"file": doc.Filename, "colours": doc.Colours.Ordered()}); err != nil {
			return err
		}
	}
	return nil
}
