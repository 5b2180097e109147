// loader/loader.go
// Copyright(c) 2022 Matt Pharr, Apache License

// Package loader reads EuroScope setup files into text ready for
// parsing. Files whose name ends in ".zst" are decompressed, and text
// that is not valid UTF-8 is decoded as Windows-1252, which is what
// EuroScope itself writes.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/charmap"
)

// Encoding is the character encoding a file was found to use.
type Encoding int

const (
	UTF8 Encoding = iota
	// UTF8BOM is UTF-8 with a leading byte order mark, as written by
	// Windows editors.
	UTF8BOM
	Windows1252
)

func (e Encoding) String() string {
	return [...]string{"utf-8", "utf-8 (bom)", "windows-1252"}[e]
}

var bom = []byte{0xef, 0xbb, 0xbf}

// File is a loaded file.
type File struct {
	Name     string
	Text     string
	Encoding Encoding
	// Compressed records whether the file was zstd compressed.
	Compressed bool
}

// Decode converts the raw contents of a file to text, removing a UTF-8
// byte order mark and falling back to Windows-1252 if the contents are
// not valid UTF-8.
func Decode(b []byte) (string, Encoding) {
	if rest, ok := bytes.CutPrefix(b, bom); ok {
		if utf8.Valid(rest) {
			return string(rest), UTF8BOM
		}
		b = rest
	}
	if utf8.Valid(b) {
		return string(b), UTF8
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�"), Windows1252
	}
	return string(s), Windows1252
}

// Read loads the named file from the local filesystem.
func Read(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(name, f)
}

// ReadFS loads the named file from fsys.
func ReadFS(fsys fs.FS, name string) (*File, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(name, f)
}

// Load reads a file from r, decompressing it if name ends in ".zst".
func Load(name string, r io.Reader) (*File, error) {
	return load(name, r)
}

func load(name string, r io.Reader) (*File, error) {
	file := &File{Name: name}
	if strings.EqualFold(filepath.Ext(name), ".zst") {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		defer zr.Close()
		r = zr
		file.Compressed = true
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	file.Text, file.Encoding = Decode(b)
	return file, nil
}

// BaseName returns the name of the file without directories or a
// trailing ".zst", as used in diagnostics.
func (f *File) BaseName() string {
	base := filepath.Base(f.Name)
	if strings.EqualFold(filepath.Ext(base), ".zst") {
		base = base[:len(base)-len(".zst")]
	}
	return base
}
