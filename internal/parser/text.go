package parser

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/teigest/internal/doctree"
)

// TextParser handles plain text transcriptions. Form feeds separate pages
// and blank lines separate paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]doctree.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	pages := strings.Split(string(data), "\f")
	for len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}

	var entries []doctree.Entry
	for i, page := range pages {
		paras, err := paragraphs(page)
		if err != nil {
			return nil, err
		}
		entries = append(entries, doctree.PageEntry(strconv.Itoa(i+1)))
		for _, para := range paras {
			entries = append(entries, doctree.TextEntry(para))
		}
	}
	return entries, nil
}

// paragraphs splits text on blank lines, keeping line breaks inside a
// paragraph.
func paragraphs(text string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paras []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paras = append(paras, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paras = append(paras, current.String())
	}
	return paras, scanner.Err()
}
