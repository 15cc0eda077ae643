// Package corpus finds the OCR output of corpus documents on disk and
// selects documents by filename metadata.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/teigest/internal/metadata"
)

// Source formats a corpus location can hold.
const (
	FormatALTO = "alto"
	FormatPDF  = "pdf"
	FormatHOCR = "hocr"
	FormatTEI  = "tei"
	FormatTXT  = "txt"
	FormatMD   = "md"
	FormatDOCX = "docx"
	FormatCSV  = "csv"
)

var extensions = map[string][]string{
	FormatALTO: {".xml"},
	FormatTEI:  {".xml"},
	FormatPDF:  {".pdf"},
	FormatHOCR: {".hocr", ".html", ".htm"},
	FormatTXT:  {".txt"},
	FormatMD:   {".md", ".markdown"},
	FormatDOCX: {".docx"},
	FormatCSV:  {".csv"},
}

// Formats lists the accepted format names.
func Formats() []string {
	out := make([]string, 0, len(extensions))
	for f := range extensions {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Document is one corpus document and its input files in page order.
type Document struct {
	Name    string
	Sources []string
}

// Metadata infers the document's metadata from its name.
func (d Document) Metadata() (metadata.Metadata, error) {
	return metadata.Infer(d.Name)
}

// Discover walks {root}/data (or {root}/data/{meeting}) of every root for
// files of the given format. A file named {dir}-{page}.{ext} inside a
// directory {dir} is a page of the document {dir}; any other file is a
// document of its own. Documents are returned in path order.
func Discover(roots []string, format string, f Filter) ([]Document, error) {
	exts, ok := extensions[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	var docs []Document
	index := map[string]int{}
	for _, root := range roots {
		base := filepath.Join(root, "data")
		if f.Meeting != "" {
			base = filepath.Join(base, f.Meeting)
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == base && os.IsNotExist(err) {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() || !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
				return nil
			}

			dir := filepath.Dir(path)
			name := stem(path)
			key := path
			if parent := filepath.Base(dir); strings.HasPrefix(name, parent+"-") {
				name, key = parent, dir
			}
			if !f.Match(name) {
				return nil
			}
			if i, ok := index[key]; ok {
				docs[i].Sources = append(docs[i].Sources, path)
				return nil
			}
			index[key] = len(docs)
			docs = append(docs, Document{Name: name, Sources: []string{path}})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", base, err)
		}
	}

	for i := range docs {
		slices.SortStableFunc(docs[i].Sources, comparePages)
	}
	return docs, nil
}

// comparePages orders page files by their numeric page suffix when both
// have one, and by path otherwise.
func comparePages(a, b string) int {
	pa, errA := strconv.Atoi(pageSuffix(a))
	pb, errB := strconv.Atoi(pageSuffix(b))
	if errA == nil && errB == nil && pa != pb {
		if pa < pb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func pageSuffix(path string) string {
	s := stem(path)
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		return s[i+1:]
	}
	return ""
}

func stem(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// DocumentName returns the document a source file belongs to: its stem
// without a numeric -{page} suffix.
func DocumentName(path string) string {
	s := stem(path)
	if p := pageSuffix(path); p != "" {
		if _, err := strconv.Atoi(p); err == nil {
			return s[:len(s)-len(p)-1]
		}
	}
	return s
}
