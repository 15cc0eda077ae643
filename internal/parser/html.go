package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/teigest/internal/doctree"
)

// HTMLParser handles hOCR output and plain HTML. In hOCR every ocr_page
// opens a page and every ocr_par is a unit. Plain HTML is a single page of
// headings, paragraphs, list items, quotes and table cells.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]doctree.Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	if pages := findClass(doc, "ocr_page"); len(pages) > 0 {
		return hocrEntries(pages), nil
	}

	entries := []doctree.Entry{doctree.PageEntry("1")}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "title":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "td", "blockquote":
				if t := textContent(n); t != "" {
					entries = append(entries, doctree.TextEntry(t))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return entries, nil
}

func hocrEntries(pages []*html.Node) []doctree.Entry {
	var entries []doctree.Entry
	for i, page := range pages {
		index := strconv.Itoa(i + 1)
		if n, ok := hocrProperty(page, "ppageno"); ok {
			index = n
		}
		entries = append(entries, doctree.PageEntry(index))

		for _, par := range findClass(page, "ocr_par") {
			if t := hocrParagraph(par); t != "" {
				entries = append(entries, doctree.TextEntry(t))
			}
		}
	}
	return entries
}

// hocrParagraph joins the words of each line with spaces and the lines with
// newlines.
func hocrParagraph(par *html.Node) string {
	lines := findClass(par, "ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat")
	if len(lines) == 0 {
		return strings.Join(strings.Fields(textContent(par)), " ")
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if words := strings.Fields(textContent(line)); len(words) > 0 {
			out = append(out, strings.Join(words, " "))
		}
	}
	return strings.Join(out, "\n")
}

// hocrProperty reads a property such as "ppageno 3" from an hOCR title
// attribute.
func hocrProperty(n *html.Node, key string) (string, bool) {
	for _, prop := range strings.Split(attr(n, "title"), ";") {
		fields := strings.Fields(prop)
		if len(fields) >= 2 && fields[0] == key {
			return fields[1], true
		}
	}
	return "", false
}

// findClass returns the outermost descendants of n carrying any of the
// given classes, in document order.
func findClass(n *html.Node, classes ...string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, classes) {
				found = append(found, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

func hasClass(n *html.Node, classes []string) bool {
	for _, have := range strings.Fields(attr(n, "class")) {
		for _, want := range classes {
			if have == want {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
