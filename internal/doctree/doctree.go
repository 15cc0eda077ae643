package doctree

// TEINamespace is the default namespace of corpus documents.
const TEINamespace = "http://www.tei-c.org/ns/1.0"

// Tags used in assembled documents.
const (
	TagTEI       = "TEI"
	TagHeader    = "teiHeader"
	TagText      = "text"
	TagFront     = "front"
	TagBody      = "body"
	TagDiv       = "div"
	TagHead      = "head"
	TagDocDate   = "docDate"
	TagPageBreak = "pb"
	TagNote      = "note"
	TagParagraph = "p"
	TagUtterance = "u"
	TagSegment   = "seg"
)

// Attribute keys with a fixed position in serialized output.
const (
	AttrID      = "xml:id"
	AttrType    = "type"
	AttrSubtype = "subtype"
)

// Attr is a single attribute. Keys are written as they appear in markup,
// e.g. "xml:id" or "facs".
type Attr struct {
	Key   string
	Value string
}

// Element is a node of a markup document. Space is the namespace URI of the
// tag; an element created by a builder normally shares its parent's.
type Element struct {
	Space    string
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// New creates a TEI-namespaced element.
func New(tag string) *Element {
	return &Element{Space: TEINamespace, Tag: tag}
}

// NewText creates a TEI-namespaced element holding text.
func NewText(tag, text string) *Element {
	return &Element{Space: TEINamespace, Tag: tag, Text: text}
}

// Is reports whether e is the TEI element with the given tag.
func (e *Element) Is(tag string) bool {
	return e.Space == TEINamespace && e.Tag == tag
}

// Get returns the value of key and whether it is present.
func (e *Element) Get(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Set assigns key, replacing an existing value in place.
func (e *Element) Set(key, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	return e
}

// Append adds children to the end of e and returns e.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// AddChild creates a TEI child with the given tag and returns it.
func (e *Element) AddChild(tag string) *Element {
	c := New(tag)
	e.Children = append(e.Children, c)
	return c
}

// Find returns the first direct child with the given TEI tag.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Is(tag) {
			return c
		}
	}
	return nil
}

// FindPath follows a chain of first-child lookups, e.g. FindPath("text", "body").
func (e *Element) FindPath(tags ...string) *Element {
	cur := e
	for _, t := range tags {
		if cur = cur.Find(t); cur == nil {
			return nil
		}
	}
	return cur
}

// Walk visits e and its descendants depth-first, pre-order. Returning false
// from fn skips the element's subtree.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Element) walk(fn func(*Element, int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}
