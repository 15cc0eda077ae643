package tei

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/teigest/internal/doctree"
)

// WriteResult describes a document written to disk.
type WriteResult struct {
	Path   string
	Bytes  int
	Data   []byte
	Report Report
}

// Writer serializes documents to disk and verifies that what was written
// reproduces itself before it becomes visible at its destination.
type Writer struct {
	log *slog.Logger
}

func NewWriter(log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{log: log}
}

// WriteFile canonicalizes root, writes it next to path, verifies the written
// bytes and renames them into place. On a mismatch the destination is left
// untouched and a *RoundTripMismatchError is returned.
func (w *Writer) WriteFile(root *doctree.Element, path string) (*WriteResult, error) {
	data, rep := Serialize(root)
	log := w.log.With("path", path)
	for _, u := range rep.Unrecognized {
		log.Warn("skipped element", "element", u.Tag, "namespace", u.Space, "parent", u.Parent)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, fmt.Errorf("re-read temp file: %w", err)
	}
	if err := Verify(written); err != nil {
		var m *RoundTripMismatchError
		if errors.As(err, &m) {
			m.Path = path
		}
		return nil, err
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return nil, fmt.Errorf("rename into place: %w", err)
	}
	committed = true

	log.Debug("document written", "bytes", len(data), "remapped", rep.Remapped, "pruned", rep.Pruned)
	return &WriteResult{Path: path, Bytes: len(data), Data: data, Report: rep}, nil
}

// Verify parses serialized bytes, serializes the result again and reports
// the first difference as a *RoundTripMismatchError.
func Verify(b []byte) error {
	root, err := Parse(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	again, _ := Serialize(root)
	if !bytes.Equal(b, again) {
		return mismatch(b, again)
	}
	return nil
}
