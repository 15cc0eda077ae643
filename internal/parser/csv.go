package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/teigest/internal/doctree"
)

// CSVParser reads a paragraph stream stored as rows. The header must name a
// text column; an optional page column opens a new page whenever its value
// changes.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]doctree.Entry, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is headers.
	pageCol, textCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "page":
			pageCol = i
		case "text", "paragraph":
			textCol = i
		}
	}
	if textCol < 0 {
		return nil, fmt.Errorf("parse csv: no text column in header %v", records[0])
	}

	var entries []doctree.Entry
	current := ""
	for _, row := range records[1:] {
		if pageCol >= 0 && pageCol < len(row) {
			if page := strings.TrimSpace(row[pageCol]); page != "" && page != current {
				entries = append(entries, doctree.PageEntry(page))
				current = page
			}
		}
		if textCol < len(row) && strings.TrimSpace(row[textCol]) != "" {
			entries = append(entries, doctree.TextEntry(row[textCol]))
		}
	}
	return entries, nil
}
