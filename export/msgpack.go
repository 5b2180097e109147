// export/msgpack.go
// Copyright(c) 2022 Matt Pharr, Apache License

package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mmp/esfiles"
)

// SnapshotVersion is bumped whenever the encoding of Document changes
// incompatibly.
const SnapshotVersion = 1

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

type snapshot struct {
	Version  int
	Document *esfiles.Document
}

// WriteMsgpack writes a msgpack snapshot of doc to w, compressing it with
// zstd if compress is set. The underlying errors of diagnostics are not
// kept; their messages are.
func WriteMsgpack(w io.Writer, doc *esfiles.Document, compress bool) error {
	if !compress {
		return msgpack.NewEncoder(w).Encode(snapshot{Version: SnapshotVersion, Document: doc})
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(snapshot{Version: SnapshotVersion, Document: doc}); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// ReadMsgpack reads a snapshot written by WriteMsgpack.
func ReadMsgpack(r io.Reader, compressed bool) (*esfiles.Document, error) {
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var s snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%d: %w", s.Version, ErrSnapshotVersion)
	}
	if s.Document == nil {
		return nil, errors.New("snapshot holds no document")
	}
	if s.Document.AirspaceFile != nil {
		s.Document.AirspaceFile.Relink()
	}
	return s.Document, nil
}

func compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// SaveMsgpack writes a snapshot of doc to the named file, compressed if
// the name ends in ".zst".
func SaveMsgpack(path string, doc *esfiles.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMsgpack(f, doc, compressed(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadMsgpack reads a snapshot saved by SaveMsgpack.
func LoadMsgpack(path string) (*esfiles.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMsgpack(f, compressed(path))
}
