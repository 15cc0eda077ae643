package doctree

// EntryKind distinguishes page markers from text units in a paragraph stream.
type EntryKind int

const (
	EntryText EntryKind = iota
	EntryPage
)

// Entry is one item of the ordered paragraph stream produced from OCR output.
// A page entry opens a new source page; a text entry is one paragraph.
type Entry struct {
	Kind EntryKind
	Page string // Page index, for page entries. May be non-numeric.
	Text string // Paragraph text, for text entries.
}

// PageEntry returns a page marker for the given page index.
func PageEntry(page string) Entry {
	return Entry{Kind: EntryPage, Page: page}
}

// TextEntry returns a text unit.
func TextEntry(text string) Entry {
	return Entry{Kind: EntryText, Text: text}
}

// IsPage reports whether the entry is a page marker.
func (e Entry) IsPage() bool {
	return e.Kind == EntryPage
}

// CountText returns the number of text entries in a stream.
func CountText(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Kind == EntryText {
			n++
		}
	}
	return n
}
