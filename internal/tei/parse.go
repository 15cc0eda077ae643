package tei

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/teigest/internal/doctree"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

type frame struct {
	el       *doctree.Element
	text     strings.Builder
	children bool
}

// Parse reads a single-rooted document into an element tree. Text of an
// element with children is trimmed; text of a leaf is kept verbatim.
// Comments, processing instructions and directives are dropped.
func Parse(r io.Reader) (*doctree.Element, error) {
	dec := xml.NewDecoder(r)

	var root *doctree.Element
	var stack []*frame

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &doctree.Element{Space: t.Name.Space, Tag: t.Name.Local}
			for _, a := range t.Attr {
				key, ok, err := attrKey(a.Name)
				if err != nil {
					return nil, err
				}
				if ok {
					el.Attrs = append(el.Attrs, doctree.Attr{Key: key, Value: a.Value})
				}
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parse: second root element <%s>", el.Tag)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				if !parent.children {
					// Text seen before the first child belongs to the parent.
					parent.el.Text = strings.TrimSpace(parent.text.String())
					parent.children = true
				}
				parent.el.Children = append(parent.el.Children, el)
			}
			stack = append(stack, &frame{el: el})

		case xml.EndElement:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !top.children {
				top.el.Text = top.text.String()
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if !top.children {
				top.text.Write(t)
				continue
			}
			if strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("parse: text after child of <%s>: %w", top.el.Tag, ErrMixedContent)
			}
		}
	}

	if root == nil {
		return nil, errors.New("parse: no root element")
	}
	return root, nil
}

// attrKey maps a decoded attribute name back to the key used in markup.
// Namespace declarations are dropped since namespaces live on elements.
func attrKey(name xml.Name) (string, bool, error) {
	switch name.Space {
	case "":
		if name.Local == "xmlns" {
			return "", false, nil
		}
		return name.Local, true, nil
	case "xmlns":
		return "", false, nil
	case xmlNamespace, "xml":
		return "xml:" + name.Local, true, nil
	}
	return "", false, fmt.Errorf("parse: unsupported namespaced attribute {%s}%s", name.Space, name.Local)
}
