package metadata

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DocumentType is the first field of a corpus filename.
type DocumentType string

const (
	TypeAsk  DocumentType = "ask"
	TypeHand DocumentType = "hand"
	TypeProt DocumentType = "prot"
	TypePtk  DocumentType = "ptk"
	TypeBil  DocumentType = "bil"
	TypeReg  DocumentType = "reg"
	TypeSis  DocumentType = "sis"
)

// DocumentTypes lists every known document type.
var DocumentTypes = []DocumentType{TypeAsk, TypeHand, TypeProt, TypePtk, TypeBil, TypeReg, TypeSis}

// Collection is the corpus collection a document type belongs to.
type Collection string

const (
	CollectionRecords    Collection = "records"
	CollectionHandlingar Collection = "handlingar"
	CollectionRegister   Collection = "register"
)

var collections = map[DocumentType]Collection{
	TypeProt: CollectionRecords,
	TypePtk:  CollectionRecords,
	TypeHand: CollectionHandlingar,
	TypeAsk:  CollectionHandlingar,
	TypeBil:  CollectionHandlingar,
	TypeReg:  CollectionRegister,
	TypeSis:  CollectionRegister,
}

// Chambers is the fixed set of estates/chambers that appear in filenames (lower case).
var Chambers = []string{"adeln", "borgare", "praster", "talonpojat", "papisto", "porvaristo"}

// KnownChamber reports whether s names one of the fixed chambers, ignoring case.
func KnownChamber(s string) bool {
	for _, c := range Chambers {
		if strings.EqualFold(c, s) {
			return true
		}
	}
	return false
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	_, ok := collections[t]
	return ok
}

// IsMinutes reports whether documents of this type are protocols, whose
// paragraphs are encoded as notes rather than plain paragraphs.
func (t DocumentType) IsMinutes() bool {
	return t == TypeProt || t == TypePtk
}

// Metadata is the structured record inferred from a corpus filename.
type Metadata struct {
	DocumentType  DocumentType `json:"document_type" yaml:"document_type"`
	YearString    string       `json:"yearstr" yaml:"yearstr"`
	Year          string       `json:"year" yaml:"year"`
	SecondaryYear *string      `json:"secondary_year" yaml:"secondary_year"`
	Chamber       *string      `json:"chamber" yaml:"chamber"`
	Number        string       `json:"number" yaml:"number"`
	Filename      string       `json:"filename" yaml:"filename"`
}

// Infer parses a path or bare filename of the form
// {type}_{year}[-{secondary}]_{chamber|""}_{number}.{ext}.
func Infer(path string) (Metadata, error) {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	stem, _, _ := strings.Cut(base, ".")

	fields := strings.Split(stem, "_")
	if len(fields) != 4 {
		return Metadata{}, &MalformedFilenameError{Filename: path, Fields: len(fields)}
	}
	doctype, year, chamber, num := fields[0], fields[1], fields[2], fields[3]

	m := Metadata{
		DocumentType: DocumentType(doctype),
		YearString:   year,
		Year:         prefix(year, 4),
		Number:       num,
		Filename:     stem,
	}
	if chamber != "" {
		c := capitalize(chamber)
		m.Chamber = &c
	}
	if utf8.RuneCountInString(year) > 4 {
		s := suffix(year, 4)
		m.SecondaryYear = &s
	}
	return m, nil
}

// Collection returns the corpus collection of the document type.
func (m Metadata) Collection() (Collection, error) {
	c, ok := collections[m.DocumentType]
	if !ok {
		return "", fmt.Errorf("no collection for document type %q", m.DocumentType)
	}
	return c, nil
}

// ChamberName returns the chamber or "" when the filename had none.
func (m Metadata) ChamberName() string {
	if m.Chamber == nil {
		return ""
	}
	return *m.Chamber
}

// Title is the human readable title written into the document header.
func (m Metadata) Title() string {
	if m.Chamber == nil {
		return fmt.Sprintf("Finnish parliamentary document: %s %s, number %s", m.DocumentType, m.YearString, m.Number)
	}
	return fmt.Sprintf("Finnish parliamentary document: %s %s, %s number %s", m.DocumentType, m.YearString, *m.Chamber, m.Number)
}

// Stem rebuilds the filename stem from the structured fields. Chambers are
// written in lower case, as they appear in corpus filenames.
func (m Metadata) Stem() string {
	year := m.Year
	if m.SecondaryYear != nil {
		year += "-" + *m.SecondaryYear
	}
	return strings.Join([]string{string(m.DocumentType), year, strings.ToLower(m.ChamberName()), m.Number}, "_")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func suffix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
