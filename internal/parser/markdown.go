package parser

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/teigest/internal/doctree"
)

// MarkdownParser handles Markdown transcriptions using goldmark. Page 1 is
// opened implicitly and every thematic break opens the next page. Each
// top-level block with text is a unit.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]doctree.Entry, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	page := 1
	entries := []doctree.Entry{doctree.PageEntry("1")}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == ast.KindThematicBreak {
			page++
			entries = append(entries, doctree.PageEntry(strconv.Itoa(page)))
			continue
		}
		if t := extractText(n, src); t != "" {
			entries = append(entries, doctree.TextEntry(t))
		}
	}
	return entries, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	collectText(&buf, n, src)
	return strings.TrimSpace(buf.String())
}

func collectText(buf *bytes.Buffer, n ast.Node, src []byte) {
	switch t := n.(type) {
	case *ast.Text:
		buf.Write(t.Segment.Value(src))
		if t.HardLineBreak() || t.SoftLineBreak() {
			buf.WriteByte('\n')
		}
		return
	case *ast.String:
		buf.Write(t.Value)
		return
	}

	// Code blocks carry raw lines instead of inline children.
	if n.FirstChild() == nil && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(buf, c, src)
		if c.Type() == ast.TypeBlock {
			buf.WriteByte('\n')
		}
	}
}
