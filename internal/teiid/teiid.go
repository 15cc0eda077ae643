// Package teiid generates the content-addressed xml:id values used on
// text-bearing elements of corpus documents.
//
// An identifier is "i-" followed by the base58 encoding of the MD5 digest of
// a seed string, read as a UUID. The format matches the identifiers already
// present in the Swedish and Finnish parliamentary corpora, so documents
// curated here can be diffed against documents curated by other tools.
package teiid

import (
	"crypto/md5"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// Prefix starts every identifier. XML ids must not begin with a digit.
const Prefix = "i-"

// Placeholder is the neutral position marker written after the filename in a
// fresh seed.
const Placeholder = "NA"

// New returns the identifier for seed. It is a pure function of its input.
func New(seed string) string {
	sum := md5.Sum([]byte(seed))
	u, err := uuid.FromBytes(sum[:])
	if err != nil {
		// FromBytes only fails on a length other than 16.
		panic(err)
	}
	return Prefix + base58.Encode(u[:])
}

// Seed accumulates document text in order and hands out identifiers that
// depend on everything seen so far.
type Seed struct {
	buf strings.Builder
}

// NewSeed starts a seed for the document with the given filename stem.
func NewSeed(filename string) *Seed {
	s := &Seed{}
	s.buf.WriteString(filename)
	s.buf.WriteString("\n")
	s.buf.WriteString(Placeholder)
	s.buf.WriteString("\n")
	return s
}

// Next appends text to the seed and returns the identifier for the new state.
func (s *Seed) Next(text string) string {
	s.buf.WriteString(text)
	return New(s.buf.String())
}

// String returns the accumulated seed.
func (s *Seed) String() string {
	return s.buf.String()
}
