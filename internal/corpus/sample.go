package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/dgallion1/teigest/internal/metadata"
)

// Strata a sample can be stratified by.
const (
	StratumYear    = "year"
	StratumChamber = "chamber"
	StratumType    = "doctype"
)

// SampleOptions configures Sample.
type SampleOptions struct {
	N     int      // items drawn per stratum
	By    []string // strata, default year and chamber
	Seed  string   // same seed, same sample; empty draws at random
	Pages bool     // draw page files instead of whole documents
}

// Sample draws up to N documents per stratum. With Pages set it draws up to
// N page files per stratum from the stratum's documents, each returned as
// a single-source document. Strata are visited in sorted order.
func Sample(docs []Document, opts SampleOptions) ([]Document, error) {
	if opts.N <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", opts.N)
	}
	by := opts.By
	if len(by) == 0 {
		by = []string{StratumYear, StratumChamber}
	}

	strata := map[string][]Document{}
	for _, d := range docs {
		meta, err := d.Metadata()
		if err != nil {
			return nil, fmt.Errorf("sample: %w", err)
		}
		key, err := stratumKey(meta, by)
		if err != nil {
			return nil, err
		}
		strata[key] = append(strata[key], d)
	}

	keys := make([]string, 0, len(strata))
	for k := range strata {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rng := newRand(opts.Seed)
	var out []Document
	for _, k := range keys {
		group := strata[k]
		if opts.Pages {
			var pages []Document
			for _, d := range group {
				for _, src := range d.Sources {
					pages = append(pages, Document{Name: d.Name, Sources: []string{src}})
				}
			}
			group = pages
		}
		group = slices.Clone(group)
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		out = append(out, group[:min(opts.N, len(group))]...)
	}
	return out, nil
}

func stratumKey(meta metadata.Metadata, by []string) (string, error) {
	parts := make([]string, len(by))
	for i, s := range by {
		switch s {
		case StratumYear:
			parts[i] = meta.YearString
		case StratumChamber:
			parts[i] = strings.ToLower(meta.ChamberName())
		case StratumType:
			parts[i] = string(meta.DocumentType)
		default:
			return "", fmt.Errorf("unknown stratum %q", s)
		}
	}
	return strings.Join(parts, "\x00"), nil
}

// newRand derives a PCG source from the SHA-256 of seed.
func newRand(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	sum := sha256.Sum256([]byte(seed))
	return rand.New(rand.NewPCG(binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])))
}
