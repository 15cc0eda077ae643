package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/teigest/internal/metadata"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func altoTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range []string{
		"data/1882/prot_1882_adeln_003/prot_1882_adeln_003-10.xml",
		"data/1882/prot_1882_adeln_003/prot_1882_adeln_003-2.xml",
		"data/1882/prot_1882_adeln_003/prot_1882_adeln_003-1.xml",
		"data/1882/ptk_1882_talonpojat_I/ptk_1882_talonpojat_I-1.xml",
		"data/1877-1878/prot_1877-1878_borgare_II/prot_1877-1878_borgare_II-1.xml",
		"data/1900/hand_1900__001/hand_1900__001-1.xml",
		"data/1900/hand_1900__001/notes.txt",
	} {
		touch(t, filepath.Join(root, p))
	}
	return root
}

func names(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}
	return out
}

func TestDiscover_GroupsPages(t *testing.T) {
	root := altoTree(t)
	docs, err := Discover([]string{root}, FormatALTO, Filter{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"prot_1877-1878_borgare_II",
		"prot_1882_adeln_003",
		"ptk_1882_talonpojat_I",
		"hand_1900__001",
	}, names(docs))

	adeln := docs[1]
	require.Len(t, adeln.Sources, 3)
	assert.Equal(t, "prot_1882_adeln_003-1.xml", filepath.Base(adeln.Sources[0]))
	assert.Equal(t, "prot_1882_adeln_003-2.xml", filepath.Base(adeln.Sources[1]))
	assert.Equal(t, "prot_1882_adeln_003-10.xml", filepath.Base(adeln.Sources[2]))
}

func TestDiscover_SingleFileDocuments(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "data/1885/prot_1885_borgare_I.pdf"))
	touch(t, filepath.Join(root, "data/1885/prot_1885_borgare_II.pdf"))

	docs, err := Discover([]string{root}, FormatPDF, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"prot_1885_borgare_I", "prot_1885_borgare_II"}, names(docs))
	assert.Len(t, docs[0].Sources, 1)
}

func TestDiscover_Meeting(t *testing.T) {
	root := altoTree(t)
	docs, err := Discover([]string{root}, FormatALTO, Filter{Meeting: "1877-1878"})
	require.NoError(t, err)
	assert.Equal(t, []string{"prot_1877-1878_borgare_II"}, names(docs))
}

func TestDiscover_MissingRootAndUnknownFormat(t *testing.T) {
	docs, err := Discover([]string{filepath.Join(t.TempDir(), "nope")}, FormatALTO, Filter{})
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = Discover(nil, "tiff", Filter{})
	assert.Error(t, err)
}

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		doc    string
		want   bool
	}{
		{"empty filter", Filter{}, "prot_1882_adeln_003", true},
		{"malformed passes empty filter", Filter{}, "notes", true},
		{"malformed fails constrained filter", Filter{Start: 1800}, "notes", false},
		{"doctype", Filter{DocumentTypes: []metadata.DocumentType{metadata.TypePtk}}, "prot_1882_adeln_003", false},
		{"chamber", Filter{Chambers: []string{"adeln"}}, "prot_1882_adeln_003", true},
		{"chamber mismatch", Filter{Chambers: []string{"borgare"}}, "prot_1882_adeln_003", false},
		{"no chamber", Filter{Chambers: []string{"adeln"}}, "hand_1900__001", false},
		{"start", Filter{Start: 1877}, "prot_1877-1878_borgare_II", true},
		{"start after", Filter{Start: 1878}, "prot_1877-1878_borgare_II", false},
		{"end uses secondary year", Filter{End: 1877}, "prot_1877-1878_borgare_II", false},
		{"end", Filter{End: 1878}, "prot_1877-1878_borgare_II", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.doc))
		})
	}
}

func TestDiscover_Filtered(t *testing.T) {
	root := altoTree(t)
	docs, err := Discover([]string{root}, FormatALTO, Filter{Start: 1880, End: 1890, Chambers: []string{"talonpojat"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ptk_1882_talonpojat_I"}, names(docs))
}

func TestDocumentName(t *testing.T) {
	assert.Equal(t, "prot_1882_adeln_003", DocumentName("data/1882/prot_1882_adeln_003/prot_1882_adeln_003-12.xml"))
	assert.Equal(t, "prot_1877-1878_borgare_II", DocumentName("prot_1877-1878_borgare_II.pdf"))
	assert.Equal(t, "prot_1877-1878_borgare_II", DocumentName("prot_1877-1878_borgare_II-3.hocr"))
}
