package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_PageChanges(t *testing.T) {
	input := "page,text\n1,Eka.\n1,\"Toka, lainattu.\"\n2,Kolmas.\n,Neljäs.\n2,\n3,Viides.\n"
	p := &CSVParser{}
	entries, err := p.Parse(strings.NewReader(input), "rows.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"page:1",
		"text:Eka.",
		"text:Toka, lainattu.",
		"page:2",
		"text:Kolmas.",
		"text:Neljäs.",
		"page:3",
		"text:Viides.",
	}
	assertEntries(t, entries, want)
}

func TestCSVParser_TextOnly(t *testing.T) {
	p := &CSVParser{}
	entries, err := p.Parse(strings.NewReader("Text\nYksi.\nKaksi.\n"), "rows.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEntries(t, entries, []string{"text:Yksi.", "text:Kaksi."})
}

func TestCSVParser_MissingTextColumn(t *testing.T) {
	p := &CSVParser{}
	if _, err := p.Parse(strings.NewReader("page,body\n1,x\n"), "rows.csv"); err == nil {
		t.Error("expected error without a text column")
	}
}

func TestCSVParser_Empty(t *testing.T) {
	p := &CSVParser{}
	entries, err := p.Parse(strings.NewReader(""), "rows.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %v", render(entries))
	}
}
