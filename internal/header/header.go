package header

import (
	"github.com/dgallion1/teigest/internal/doctree"
	"github.com/dgallion1/teigest/internal/metadata"
)

// Builder produces the teiHeader element for a document.
type Builder interface {
	Build(meta metadata.Metadata) *doctree.Element
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(meta metadata.Metadata) *doctree.Element

func (f BuilderFunc) Build(meta metadata.Metadata) *doctree.Element { return f(meta) }

// ParlaClarin builds the Parla-CLARIN style header used across the corpus.
type ParlaClarin struct {
	Authority string // Publication authority. "N/A" when empty.
	Edition   string // Optional edition statement.
}

// Build returns
//
//	teiHeader/fileDesc/{titleStmt/title, editionStmt?, extent, publicationStmt/authority,
//	                    sourceDesc/bibl/{title, date?}}
func (p ParlaClarin) Build(meta metadata.Metadata) *doctree.Element {
	title := meta.Title()
	authority := p.Authority
	if authority == "" {
		authority = "N/A"
	}

	h := doctree.New(doctree.TagHeader)
	fileDesc := h.AddChild("fileDesc")

	fileDesc.AddChild("titleStmt").Append(doctree.NewText("title", title))
	if p.Edition != "" {
		fileDesc.AddChild("editionStmt").Append(doctree.NewText("edition", p.Edition))
	}
	fileDesc.AddChild("extent")
	fileDesc.AddChild("publicationStmt").Append(doctree.NewText("authority", authority))

	bibl := fileDesc.AddChild("sourceDesc").AddChild("bibl")
	bibl.Append(doctree.NewText("title", title))
	if meta.Year != "" {
		bibl.Append(doctree.NewText("date", meta.YearString).Set("when", meta.Year))
	}
	return h
}
