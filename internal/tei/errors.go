package tei

import (
	"errors"
	"fmt"
)

var (
	// ErrRoundTripMismatch matches any *RoundTripMismatchError via errors.Is.
	ErrRoundTripMismatch = errors.New("round trip mismatch")

	// ErrUnrecognizedElement matches any *UnrecognizedElementError via errors.Is.
	ErrUnrecognizedElement = errors.New("unrecognized element")

	// ErrMixedContent is returned by Parse for non-whitespace text between
	// sibling elements, which the document model cannot represent.
	ErrMixedContent = errors.New("mixed content is not supported")
)

// RoundTripMismatchError reports serialized bytes that do not reproduce
// themselves after a parse and re-serialization.
type RoundTripMismatchError struct {
	Path   string // Destination, when known.
	Offset int    // First differing byte.
	Want   string // Excerpt of the first serialization at Offset.
	Got    string // Excerpt of the second serialization at Offset.
}

func (e *RoundTripMismatchError) Error() string {
	where := "document"
	if e.Path != "" {
		where = e.Path
	}
	return fmt.Sprintf("round trip mismatch in %s at byte %d: wrote %q, re-serialized %q", where, e.Offset, e.Want, e.Got)
}

func (e *RoundTripMismatchError) Is(target error) bool {
	return target == ErrRoundTripMismatch
}

// UnrecognizedElementError describes an element under the body that has no
// equivalent in the tag vocabulary. It is recovered by skipping the element
// and is only ever reported, never returned from a write.
type UnrecognizedElementError struct {
	Space  string
	Tag    string
	Parent string
}

func (e *UnrecognizedElementError) Error() string {
	name := e.Tag
	if e.Space != "" {
		name = "{" + e.Space + "}" + e.Tag
	}
	return fmt.Sprintf("unrecognized element %s in <%s>", name, e.Parent)
}

func (e *UnrecognizedElementError) Is(target error) bool {
	return target == ErrUnrecognizedElement
}

func mismatch(first, second []byte) *RoundTripMismatchError {
	i := 0
	for i < len(first) && i < len(second) && first[i] == second[i] {
		i++
	}
	return &RoundTripMismatchError{
		Offset: i,
		Want:   excerpt(first, i),
		Got:    excerpt(second, i),
	}
}

func excerpt(b []byte, at int) string {
	const n = 40
	if at >= len(b) {
		return ""
	}
	end := min(at+n, len(b))
	return string(b[at:end])
}
