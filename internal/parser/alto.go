package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/teigest/internal/doctree"
)

// ALTOParser handles one ALTO page file. The page index is the part of the
// file stem after its last '-', e.g. "prot_1882_adeln_003-012.xml" is page
// "012". Every TextBlock is a unit: words of a line are joined with spaces
// and lines with newlines. A word split across lines with SUBS_CONTENT is
// written once, whole.
type ALTOParser struct{}

func (p *ALTOParser) Parse(r io.Reader, filename string) ([]doctree.Entry, error) {
	entries := []doctree.Entry{doctree.PageEntry(altoPageIndex(filename))}

	dec := xml.NewDecoder(r)
	var (
		lines   []string
		words   []string
		inBlock int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse alto: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "TextBlock":
				inBlock++
				if inBlock == 1 {
					lines = lines[:0]
				}
			case "TextLine":
				words = words[:0]
			case "String":
				if w := altoWord(t.Attr); w != "" {
					words = append(words, w)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "TextLine":
				if len(words) > 0 {
					lines = append(lines, strings.Join(words, " "))
				}
			case "TextBlock":
				inBlock--
				if inBlock == 0 && len(lines) > 0 {
					entries = append(entries, doctree.TextEntry(strings.Join(lines, "\n")))
				}
			}
		}
	}
	return entries, nil
}

func altoWord(attrs []xml.Attr) string {
	var content, subsType, subsContent string
	for _, a := range attrs {
		switch a.Name.Local {
		case "CONTENT":
			content = a.Value
		case "SUBS_TYPE":
			subsType = a.Value
		case "SUBS_CONTENT":
			subsContent = a.Value
		}
	}
	switch {
	case subsType == "HypPart1" && subsContent != "":
		return subsContent
	case subsType == "HypPart2" && subsContent != "":
		return ""
	}
	return content
}

func altoPageIndex(filename string) string {
	s := stem(filename)
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		return s[i+1:]
	}
	return s
}
