package tei

import (
	"cmp"
	"slices"

	"github.com/dgallion1/teigest/internal/doctree"
	"github.com/dgallion1/teigest/internal/reflow"
)

// Report summarizes what canonicalization changed.
type Report struct {
	Remapped     int                         // Bare legacy tags moved into the TEI namespace.
	Pruned       int                         // Empty elements removed.
	Unrecognized []*UnrecognizedElementError // Elements skipped.
}

// legacyTags lists bare tags with an unambiguous TEI equivalent.
var legacyTags = map[string]string{
	"p":    doctree.TagParagraph,
	"pb":   doctree.TagPageBreak,
	"note": doctree.TagNote,
	"u":    doctree.TagUtterance,
	"seg":  doctree.TagSegment,
}

var (
	divContent = map[string]bool{
		doctree.TagPageBreak: true,
		doctree.TagNote:      true,
		doctree.TagParagraph: true,
		doctree.TagUtterance: true,
		doctree.TagSegment:   true,
	}
	utteranceContent = map[string]bool{
		doctree.TagSegment: true,
	}
)

var attrRank = map[string]int{
	doctree.AttrID:      0,
	doctree.AttrType:    1,
	doctree.AttrSubtype: 2,
}

// Canonicalize normalizes root in place: attributes of every element are
// ordered, and the content of each body division is remapped, reflowed and
// pruned. Applying it twice is the same as applying it once.
func Canonicalize(root *doctree.Element) Report {
	var rep Report
	root.Walk(func(el *doctree.Element, _ int) bool {
		sortAttrs(el)
		return true
	})

	var body *doctree.Element
	depth := 0
	root.Walk(func(el *doctree.Element, d int) bool {
		if body != nil {
			return false
		}
		if el.Is(doctree.TagBody) {
			body, depth = el, d
			return false
		}
		return true
	})
	if body == nil {
		return rep
	}

	for _, div := range body.Children {
		if div.Is(doctree.TagDiv) {
			canonicalizeDiv(div, depth+1, &rep)
		}
	}
	return rep
}

func sortAttrs(el *doctree.Element) {
	slices.SortStableFunc(el.Attrs, func(a, b doctree.Attr) int {
		ra, oka := attrRank[a.Key]
		rb, okb := attrRank[b.Key]
		switch {
		case oka && okb:
			return cmp.Compare(ra, rb)
		case oka:
			return -1
		case okb:
			return 1
		}
		return cmp.Compare(a.Key, b.Key)
	})
}

// canonicalizeDiv handles the children of a body division sitting at depth.
// The division itself is never removed.
func canonicalizeDiv(div *doctree.Element, depth int, rep *Report) {
	kept := make([]*doctree.Element, 0, len(div.Children))
	for _, c := range div.Children {
		if !normalizeTag(c, div, divContent, rep) {
			continue
		}
		switch c.Tag {
		case doctree.TagPageBreak:
			kept = append(kept, c)
		case doctree.TagUtterance:
			if canonicalizeUtterance(c, depth+1, rep) {
				kept = append(kept, c)
			} else {
				rep.Pruned++
			}
		default:
			if reflowText(c, depth+1, rep) {
				kept = append(kept, c)
			} else {
				rep.Pruned++
			}
		}
	}
	div.Children = kept
}

// canonicalizeUtterance formats the segments of u and reports whether u
// still has content. Text directly inside an utterance with segments is
// dropped.
func canonicalizeUtterance(u *doctree.Element, depth int, rep *Report) bool {
	if len(u.Children) == 0 {
		return reflowText(u, depth, rep)
	}
	u.Text = ""

	kept := make([]*doctree.Element, 0, len(u.Children))
	for _, seg := range u.Children {
		if !normalizeTag(seg, u, utteranceContent, rep) {
			continue
		}
		if reflowText(seg, depth+1, rep) {
			kept = append(kept, seg)
		} else {
			rep.Pruned++
		}
	}
	u.Children = kept
	return len(kept) > 0
}

// reflowText wraps the text of a leaf element at depth and reports whether
// any text remains. Markup nested inside text-bearing elements is outside
// the vocabulary and is skipped.
func reflowText(el *doctree.Element, depth int, rep *Report) bool {
	for _, c := range el.Children {
		rep.Unrecognized = append(rep.Unrecognized, &UnrecognizedElementError{Space: c.Space, Tag: c.Tag, Parent: el.Tag})
	}
	el.Children = nil

	text, ok := reflow.Block(el.Text, depth*indentWidth)
	el.Text = text
	return ok
}

// normalizeTag moves a bare legacy tag into the TEI namespace and reports
// whether el is allowed under parent. Anything else is recorded and skipped.
func normalizeTag(el, parent *doctree.Element, allowed map[string]bool, rep *Report) bool {
	if el.Space == "" {
		if tag, ok := legacyTags[el.Tag]; ok {
			el.Space, el.Tag = doctree.TEINamespace, tag
			rep.Remapped++
		}
	}
	if el.Space == doctree.TEINamespace && allowed[el.Tag] {
		return true
	}
	rep.Unrecognized = append(rep.Unrecognized, &UnrecognizedElementError{Space: el.Space, Tag: el.Tag, Parent: parent.Tag})
	return false
}
