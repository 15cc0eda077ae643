package tei

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/teigest/internal/doctree"
)

// Declaration opens every serialized document.
const Declaration = "<?xml version='1.0' encoding='UTF-8'?>\n"

const indentWidth = 2

// Serialize canonicalizes root in place and returns its bytes.
func Serialize(root *doctree.Element) ([]byte, Report) {
	rep := Canonicalize(root)
	return Marshal(root), rep
}

// Marshal writes root as-is. Elements without children and text are
// self-closing; a leaf's text is written verbatim; an element with children
// puts each child on its own line, and any text of its own (trimmed) right
// after its start tag. A namespace declaration is written wherever an
// element's namespace differs from its parent's.
func Marshal(root *doctree.Element) []byte {
	var buf bytes.Buffer
	buf.WriteString(Declaration)
	writeElement(&buf, root, "", 0)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, el *doctree.Element, parentSpace string, depth int) {
	indent := strings.Repeat(" ", depth*indentWidth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(el.Tag)
	if el.Space != parentSpace {
		writeAttr(buf, "xmlns", el.Space)
	}
	for _, a := range el.Attrs {
		writeAttr(buf, a.Key, a.Value)
	}

	if len(el.Children) == 0 {
		if el.Text == "" {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		escapeText(buf, el.Text, false)
		writeEnd(buf, el.Tag)
		return
	}

	buf.WriteByte('>')
	escapeText(buf, strings.TrimSpace(el.Text), false)
	for _, c := range el.Children {
		buf.WriteByte('\n')
		writeElement(buf, c, el.Space, depth+1)
	}
	buf.WriteByte('\n')
	buf.WriteString(indent)
	writeEnd(buf, el.Tag)
}

func writeAttr(buf *bytes.Buffer, key, value string) {
	buf.WriteByte(' ')
	buf.WriteString(key)
	buf.WriteString(`="`)
	escapeText(buf, value, true)
	buf.WriteByte('"')
}

func writeEnd(buf *bytes.Buffer, tag string) {
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
}

// escapeText escapes markup characters. Characters XML 1.0 cannot carry are
// replaced with U+FFFD so the output always parses. Inside attribute values
// quotes and whitespace control characters are written as references, since
// parsers normalize them otherwise.
func escapeText(buf *bytes.Buffer, s string, attr bool) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '&':
			buf.WriteString("&amp;")
		case r == '<':
			buf.WriteString("&lt;")
		case r == '>':
			buf.WriteString("&gt;")
		case r == '\r':
			buf.WriteString("&#13;")
		case attr && r == '"':
			buf.WriteString("&quot;")
		case attr && r == '\n':
			buf.WriteString("&#10;")
		case attr && r == '\t':
			buf.WriteString("&#9;")
		case r == utf8.RuneError && size == 1, !isXMLChar(r):
			buf.WriteRune('\uFFFD')
		default:
			buf.WriteRune(r)
		}
	}
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
