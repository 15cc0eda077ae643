package header

import (
	"testing"

	"github.com/dgallion1/teigest/internal/doctree"
	"github.com/dgallion1/teigest/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParlaClarin_Build(t *testing.T) {
	meta, err := metadata.Infer("prot_1882_adeln_003.xml")
	require.NoError(t, err)

	h := ParlaClarin{}.Build(meta)
	require.True(t, h.Is(doctree.TagHeader))

	title := h.FindPath("fileDesc", "titleStmt", "title")
	require.NotNil(t, title)
	assert.Equal(t, meta.Title(), title.Text)

	authority := h.FindPath("fileDesc", "publicationStmt", "authority")
	require.NotNil(t, authority)
	assert.Equal(t, "N/A", authority.Text)

	assert.Nil(t, h.FindPath("fileDesc", "editionStmt"))

	date := h.FindPath("fileDesc", "sourceDesc", "bibl", "date")
	require.NotNil(t, date)
	when, ok := date.Get("when")
	assert.True(t, ok)
	assert.Equal(t, "1882", when)
}

func TestParlaClarin_Edition(t *testing.T) {
	meta, err := metadata.Infer("hand_1905__12.xml")
	require.NoError(t, err)

	h := ParlaClarin{Authority: "SWERIK", Edition: "0.1.0"}.Build(meta)
	edition := h.FindPath("fileDesc", "editionStmt", "edition")
	require.NotNil(t, edition)
	assert.Equal(t, "0.1.0", edition.Text)
	assert.Equal(t, "SWERIK", h.FindPath("fileDesc", "publicationStmt", "authority").Text)
}

func TestBuilderFunc(t *testing.T) {
	var b Builder = BuilderFunc(func(meta metadata.Metadata) *doctree.Element {
		return doctree.NewText(doctree.TagHeader, meta.Filename)
	})
	h := b.Build(metadata.Metadata{Filename: "x"})
	assert.Equal(t, "x", h.Text)
}
