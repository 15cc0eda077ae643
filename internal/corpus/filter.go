package corpus

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/teigest/internal/metadata"
)

// Filter selects documents by the fields of their names. Zero values do
// not constrain.
type Filter struct {
	DocumentTypes []metadata.DocumentType
	Chambers      []string
	Start         int    // first year of the year field must be >= Start
	End           int    // last year of the year field must be <= End
	Meeting       string // restricts discovery to data/{Meeting}
}

func (f Filter) constrains() bool {
	return len(f.DocumentTypes) > 0 || len(f.Chambers) > 0 || f.Start > 0 || f.End > 0
}

// Match reports whether a document name passes the filter. Names that do
// not parse only pass an unconstrained filter.
func (f Filter) Match(name string) bool {
	meta, err := metadata.Infer(name)
	if err != nil {
		return !f.constrains()
	}

	if len(f.DocumentTypes) > 0 && !slices.Contains(f.DocumentTypes, meta.DocumentType) {
		return false
	}
	if len(f.Chambers) > 0 && !slices.ContainsFunc(f.Chambers, func(c string) bool {
		return strings.EqualFold(c, meta.ChamberName())
	}) {
		return false
	}
	if f.Start > 0 {
		y, err := strconv.Atoi(meta.Year)
		if err != nil || y < f.Start {
			return false
		}
	}
	if f.End > 0 {
		last := meta.Year
		if meta.SecondaryYear != nil {
			last = *meta.SecondaryYear
		}
		y, err := strconv.Atoi(last)
		if err != nil || y > f.End {
			return false
		}
	}
	return true
}
