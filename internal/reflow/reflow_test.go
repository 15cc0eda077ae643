package reflow

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap_LongParagraph(t *testing.T) {
	// 200 characters, no embedded newlines.
	text := strings.Repeat("herra puhemies ehdotus ja keskustelu ", 6)[:200]
	if len(text) != 200 {
		t.Fatalf("fixture has %d characters", len(text))
	}

	lines := Wrap(text, Width)
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines, got %d", len(lines))
	}
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n > Width {
			t.Errorf("line %d has %d characters (> %d): %q", i, n, Width, line)
		}
	}
	if got, want := strings.Fields(strings.Join(lines, " ")), strings.Fields(text); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("word sequence changed:\n got %v\nwant %v", got, want)
	}
}

func TestWrap_NewlinesAreWhitespace(t *testing.T) {
	lines := Wrap("first\nsecond\n\n  third\tfourth", Width)
	if len(lines) != 1 || lines[0] != "first second third fourth" {
		t.Errorf("expected one collapsed line, got %q", lines)
	}
}

func TestWrap_OverlongWord(t *testing.T) {
	long := strings.Repeat("x", 75)
	lines := Wrap("a "+long+" b", Width)
	want := []string{"a", long, "b"}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestWrap_ExactWidth(t *testing.T) {
	// Two 29-char words + space = 59, a third would overflow.
	w := strings.Repeat("a", 29)
	lines := Wrap(w+" "+w+" "+w, Width)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if len(lines[0]) != 59 {
		t.Errorf("expected first line of 59 chars, got %d", len(lines[0]))
	}
}

func TestWrap_Empty(t *testing.T) {
	if lines := Wrap("  \n\t ", Width); len(lines) != 0 {
		t.Errorf("expected no lines, got %q", lines)
	}
}

func TestBlock_Indentation(t *testing.T) {
	got, ok := Block("Herra puhemies.", 8)
	if !ok {
		t.Fatal("expected a block")
	}
	want := "\n          Herra puhemies.\n        "
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBlock_Idempotent(t *testing.T) {
	text := strings.Repeat("Keskustelu jatkui ja ehdotus hyväksyttiin. ", 8)
	first, ok := Block(text, 8)
	if !ok {
		t.Fatal("expected a block")
	}
	second, _ := Block(first, 8)
	if first != second {
		t.Errorf("reflowing a reflowed block changed it:\n%q\n%q", first, second)
	}
}

func TestBlock_WhitespaceOnly(t *testing.T) {
	if _, ok := Block(" \n ", 8); ok {
		t.Error("expected whitespace-only text to produce no block")
	}
}
