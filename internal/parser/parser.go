package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/teigest/internal/doctree"
)

// Parser converts one OCR output file into an ordered paragraph stream.
type Parser interface {
	Parse(r io.Reader, filename string) ([]doctree.Entry, error)
}

// Options tune the parsers returned by ForFile.
type Options struct {
	PDFFallbackPdftotext bool
}

// Source is one input file of a document, held in memory.
type Source struct {
	Name string
	Data []byte
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".xml":      true,
	".hocr":     true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return &ALTOParser{}, nil
	case ".hocr", ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ReadSources loads files in the given order.
func ReadSources(paths []string) ([]Source, error) {
	srcs := make([]Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		srcs = append(srcs, Source{Name: filepath.Base(p), Data: data})
	}
	return srcs, nil
}

// ParseSources parses each source with the parser for its extension and
// concatenates the streams in order. Text is normalized to NFC.
func ParseSources(srcs []Source, opts Options) ([]doctree.Entry, error) {
	var entries []doctree.Entry
	for _, src := range srcs {
		p, err := ForFile(src.Name, opts)
		if err != nil {
			return nil, err
		}
		got, err := p.Parse(bytes.NewReader(src.Data), src.Name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", src.Name, err)
		}
		entries = append(entries, got...)
	}
	for i := range entries {
		if entries[i].Kind == doctree.EntryText {
			entries[i].Text = norm.NFC.String(entries[i].Text)
		}
	}
	return entries, nil
}

// ParseFiles reads and parses files in the given order.
func ParseFiles(paths []string, opts Options) ([]doctree.Entry, error) {
	srcs, err := ReadSources(paths)
	if err != nil {
		return nil, err
	}
	return ParseSources(srcs, opts)
}

// stem strips the directory and every extension from filename.
func stem(filename string) string {
	base := filepath.Base(filename)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}
