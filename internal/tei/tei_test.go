package tei

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/teigest/internal/assemble"
	"github.com/dgallion1/teigest/internal/doctree"
	"github.com/dgallion1/teigest/internal/metadata"
)

func bodyDoc(children ...*doctree.Element) (*doctree.Element, *doctree.Element) {
	root := doctree.New(doctree.TagTEI)
	div := root.AddChild(doctree.TagText).AddChild(doctree.TagBody).AddChild(doctree.TagDiv)
	div.Append(children...)
	return root, div
}

func assembled(t *testing.T) *doctree.Element {
	t.Helper()
	meta, err := metadata.Infer("prot_1882_adeln_003.pdf")
	require.NoError(t, err)
	entries := []doctree.Entry{
		doctree.PageEntry("1"),
		doctree.TextEntry("Herra puhemies, " + strings.Repeat("keskustelu jatkui pitkään ja ehdotus hyväksyttiin. ", 5)),
		doctree.TextEntry("Istunto päättyi & kokous < huomenna."),
		doctree.PageEntry("2"),
		doctree.TextEntry("   "),
		doctree.TextEntry("Pöytäkirjan vakuudeksi."),
	}
	res, err := assemble.Assemble(meta, entries, assemble.Options{})
	require.NoError(t, err)
	return res.Root
}

func TestMarshal_SmallDocument(t *testing.T) {
	root, _ := bodyDoc(doctree.NewText(doctree.TagNote, "Hello world.").Set(doctree.AttrID, "i-1"))
	got, rep := Serialize(root)

	want := Declaration +
		`<TEI xmlns="http://www.tei-c.org/ns/1.0">` + "\n" +
		"  <text>\n" +
		"    <body>\n" +
		"      <div>\n" +
		`        <note xml:id="i-1">` + "\n" +
		"          Hello world.\n" +
		"        </note>\n" +
		"      </div>\n" +
		"    </body>\n" +
		"  </text>\n" +
		"</TEI>\n"
	assert.Equal(t, want, string(got))
	assert.Zero(t, rep.Pruned)
	assert.Empty(t, rep.Unrecognized)
}

func TestSerialize_Idempotent(t *testing.T) {
	first, _ := Serialize(assembled(t))

	root, err := Parse(strings.NewReader(string(first)))
	require.NoError(t, err)
	second, _ := Serialize(root)
	assert.Equal(t, string(first), string(second))
	assert.NoError(t, Verify(first))
}

func TestSerialize_Stable(t *testing.T) {
	a, _ := Serialize(assembled(t))
	b, _ := Serialize(assembled(t))
	assert.Equal(t, a, b)
}

func TestSerialize_ReflowsBodyText(t *testing.T) {
	out, _ := Serialize(assembled(t))

	inNote := false
	for _, line := range strings.Split(string(out), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "<note"):
			inNote = true
		case trimmed == "</note>":
			inNote = false
		case inNote:
			assert.True(t, strings.HasPrefix(line, strings.Repeat(" ", 10)), "content line not indented: %q", line)
			assert.LessOrEqual(t, utf8.RuneCountInString(trimmed), 60, "line too long: %q", trimmed)
		}
	}
}

func TestCanonicalize_AttributeOrder(t *testing.T) {
	el := doctree.New(doctree.TagPageBreak)
	el.Attrs = []doctree.Attr{
		{Key: "n", Value: "5"},
		{Key: "subtype", Value: "s"},
		{Key: "facs", Value: "f.pdf"},
		{Key: "type", Value: "t"},
		{Key: "xml:id", Value: "i-x"},
	}
	root, _ := bodyDoc(el)
	Canonicalize(root)

	var keys []string
	for _, a := range el.Attrs {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"xml:id", "type", "subtype", "facs", "n"}, keys)
}

func TestCanonicalize_Pruning(t *testing.T) {
	emptySeg := doctree.NewText(doctree.TagSegment, " \n ")
	u := doctree.New(doctree.TagUtterance).Append(emptySeg)
	keepSeg := doctree.NewText(doctree.TagSegment, "Puhuja sanoi.")
	kept := doctree.New(doctree.TagUtterance).Append(keepSeg, doctree.NewText(doctree.TagSegment, ""))

	root, div := bodyDoc(
		doctree.NewText(doctree.TagNote, "   "),
		doctree.NewText(doctree.TagParagraph, ""),
		u,
		kept,
		doctree.New(doctree.TagPageBreak),
	)
	rep := Canonicalize(root)

	require.Len(t, div.Children, 2)
	assert.Same(t, kept, div.Children[0])
	assert.Len(t, kept.Children, 1)
	assert.True(t, div.Children[1].Is(doctree.TagPageBreak))
	assert.Equal(t, 5, rep.Pruned)
}

func TestCanonicalize_DivNeverRemoved(t *testing.T) {
	root, div := bodyDoc(doctree.NewText(doctree.TagNote, ""))
	Canonicalize(root)

	body := root.FindPath(doctree.TagText, doctree.TagBody)
	require.Len(t, body.Children, 1)
	assert.Same(t, div, body.Children[0])
	assert.Empty(t, div.Children)
	assert.Contains(t, string(Marshal(root)), "<div/>")
}

func TestCanonicalize_LegacyRemap(t *testing.T) {
	bare := &doctree.Element{Tag: "p", Text: "Vanha kappale."}
	root, div := bodyDoc(bare)
	rep := Canonicalize(root)

	require.Len(t, div.Children, 1)
	assert.True(t, div.Children[0].Is(doctree.TagParagraph))
	assert.Equal(t, 1, rep.Remapped)

	out := string(Marshal(root))
	assert.Contains(t, out, "<p>\n")
	assert.NotContains(t, out, `xmlns=""`)
}

func TestCanonicalize_SkipsUnrecognized(t *testing.T) {
	root, div := bodyDoc(
		doctree.NewText("table", "ei tuettu"),
		&doctree.Element{Tag: "figure"},
		doctree.NewText(doctree.TagNote, "Säilyy."),
	)
	rep := Canonicalize(root)

	require.Len(t, div.Children, 1)
	assert.True(t, div.Children[0].Is(doctree.TagNote))
	require.Len(t, rep.Unrecognized, 2)
	assert.Equal(t, "table", rep.Unrecognized[0].Tag)
	assert.Equal(t, "figure", rep.Unrecognized[1].Tag)
	assert.ErrorIs(t, rep.Unrecognized[0], ErrUnrecognizedElement)
}

func TestCanonicalize_NestedMarkupInTextDropped(t *testing.T) {
	note := doctree.NewText(doctree.TagNote, "Alku").Append(doctree.NewText("hi", "korostus"))
	root, _ := bodyDoc(note)
	rep := Canonicalize(root)

	assert.Empty(t, note.Children)
	require.Len(t, rep.Unrecognized, 1)
	assert.Equal(t, "note", rep.Unrecognized[0].Parent)
}

func TestMarshal_Escaping(t *testing.T) {
	root := doctree.New(doctree.TagTEI)
	root.Append(doctree.NewText("title", "A & B <c> \r end").Set("n", "say \"hi\"\n\tnow"))
	out := string(Marshal(root))

	assert.Contains(t, out, "A &amp; B &lt;c&gt; &#13; end")
	assert.Contains(t, out, `n="say &quot;hi&quot;&#10;&#9;now"`)
	assert.NoError(t, Verify([]byte(out)))
}

func TestMarshal_InvalidCharacters(t *testing.T) {
	root := doctree.New(doctree.TagTEI)
	root.Append(doctree.NewText("title", "bad\x01char"))
	out := Marshal(root)

	assert.Contains(t, string(out), "bad\uFFFDchar")
	assert.NoError(t, Verify(out))
}

func TestParse_Attributes(t *testing.T) {
	src := `<?xml version='1.0' encoding='UTF-8'?>
<!-- generated -->
<TEI xmlns="http://www.tei-c.org/ns/1.0"><text><body><div>
<note xml:id="i-abc" type="speaker">Teksti</note>
</div></body></text></TEI>`
	root, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	note := root.FindPath(doctree.TagText, doctree.TagBody, doctree.TagDiv, doctree.TagNote)
	require.NotNil(t, note)
	id, ok := note.Get(doctree.AttrID)
	assert.True(t, ok)
	assert.Equal(t, "i-abc", id)
	assert.Equal(t, "Teksti", note.Text)
	assert.Empty(t, root.Attrs)
}

func TestParse_MixedContent(t *testing.T) {
	_, err := Parse(strings.NewReader(`<TEI><a/>tail</TEI>`))
	assert.ErrorIs(t, err, ErrMixedContent)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestVerify_Mismatch(t *testing.T) {
	src := Declaration + `<TEI xmlns="http://www.tei-c.org/ns/1.0"><text><body><div><note>  a  </note></div></body></text></TEI>` + "\n"
	err := Verify([]byte(src))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoundTripMismatch))

	var m *RoundTripMismatchError
	require.ErrorAs(t, err, &m)
	assert.Equal(t, len(Declaration)+len(`<TEI xmlns="http://www.tei-c.org/ns/1.0">`), m.Offset)
}

func TestWriter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prot", "1882", "prot_1882_adeln_003.xml")

	res, err := NewWriter(nil).WriteFile(assembled(t), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, res.Data, data)
	assert.Equal(t, len(data), res.Bytes)
	assert.Equal(t, 1, res.Report.Pruned)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriter_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	root, _ := bodyDoc(doctree.NewText(doctree.TagNote, "Uusi."))
	_, err := NewWriter(nil).WriteFile(root, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Uusi.")
}
