package assemble

import (
	"fmt"
	"strings"

	"github.com/dgallion1/teigest/internal/doctree"
	"github.com/dgallion1/teigest/internal/header"
	"github.com/dgallion1/teigest/internal/metadata"
	"github.com/dgallion1/teigest/internal/teiid"
)

// DefaultFacsBaseURL hosts the page PDFs that pb/@facs points at.
const DefaultFacsBaseURL = "https://swerik-project.github.io"

// Options configures assembly. The zero value is usable.
type Options struct {
	Header      header.Builder // Defaults to header.ParlaClarin{}.
	FacsBaseURL string         // Defaults to DefaultFacsBaseURL.
	Date        string         // docDate/@when. Defaults to {year}-01-01.
}

// Result is an assembled document.
type Result struct {
	Root        *doctree.Element
	Pages       int
	Identifiers int
}

// Assemble builds the TEI tree for a document from its metadata and its
// ordered paragraph stream. Identifiers are assigned from a seed that
// accumulates every preceding text unit, so they depend on document order.
func Assemble(meta metadata.Metadata, entries []doctree.Entry, opts Options) (*Result, error) {
	collection, err := meta.Collection()
	if err != nil {
		return nil, &UnknownDocumentTypeError{DocumentType: string(meta.DocumentType)}
	}
	if opts.Header == nil {
		opts.Header = header.ParlaClarin{}
	}
	if opts.FacsBaseURL == "" {
		opts.FacsBaseURL = DefaultFacsBaseURL
	}
	date := opts.Date
	if date == "" {
		year := meta.Year
		if year == "" {
			year = "2020"
		}
		date = year + "-01-01"
	}

	root := doctree.New(doctree.TagTEI)
	root.Append(opts.Header.Build(meta))

	text := root.AddChild(doctree.TagText)
	preface := text.AddChild(doctree.TagFront).AddChild(doctree.TagDiv).Set(doctree.AttrType, "preface")
	preface.Append(
		doctree.NewText(doctree.TagHead, meta.Filename),
		doctree.NewText(doctree.TagDocDate, date).Set("when", date),
	)
	div := text.AddChild(doctree.TagBody).AddChild(doctree.TagDiv)

	tag := doctree.TagParagraph
	if meta.DocumentType.IsMinutes() {
		tag = doctree.TagNote
	}

	res := &Result{Root: root}
	seed := teiid.NewSeed(meta.Filename)
	for _, e := range entries {
		if e.IsPage() {
			pb := doctree.New(doctree.TagPageBreak).Set("facs", facsURL(opts.FacsBaseURL, collection, meta, e.Page))
			div.Append(pb)
			res.Pages++
			continue
		}
		el := doctree.NewText(tag, e.Text)
		el.Set(doctree.AttrID, seed.Next(e.Text))
		div.Append(el)
		res.Identifiers++
	}
	return res, nil
}

func facsURL(base string, collection metadata.Collection, meta metadata.Metadata, page string) string {
	return fmt.Sprintf("%s/valtiopaivat-%s-pdf/%s/%s-%s.pdf",
		strings.TrimRight(base, "/"), collection, meta.YearString, meta.Filename, page)
}
