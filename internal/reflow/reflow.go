package reflow

import (
	"strings"
	"unicode/utf8"
)

// Width is the content budget of a wrapped line, in characters.
const Width = 60

// Words splits text on any whitespace. Newlines are plain whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// Wrap greedily packs words into lines of at most width characters. A word
// longer than width gets a line of its own.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = Width
	}

	var lines []string
	var current strings.Builder
	currentLen := 0

	for _, word := range Words(text) {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > width {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Block formats text as the content of an element whose tags sit at the
// given indentation: every wrapped line on its own row indented two spaces
// deeper, followed by a newline and the closing-tag indentation. It returns
// false when text has no words.
func Block(text string, indent int) (string, bool) {
	lines := Wrap(text, Width)
	if len(lines) == 0 {
		return "", false
	}

	pad := strings.Repeat(" ", indent+2)
	var b strings.Builder
	for _, line := range lines {
		b.WriteByte('\n')
		b.WriteString(pad)
		b.WriteString(line)
	}
	b.WriteByte('\n')
	b.WriteString(pad[:indent])
	return b.String(), true
}
