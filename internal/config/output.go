package config

import (
	"errors"
	"path/filepath"

	"github.com/dgallion1/teigest/internal/metadata"
)

// Output decides where each document's TEI file is written. Dir, when set,
// takes precedence over the corpus TEI locations and lays files out as
// {Dir}/{collection}/{year}/{filename}.xml.
type Output struct {
	Dir    string
	Corpus *Corpus
}

// Path returns the destination file for a document.
func (o Output) Path(meta metadata.Metadata) (string, error) {
	name := meta.Filename + ".xml"
	if o.Dir != "" {
		col, err := meta.Collection()
		if err != nil {
			return "", err
		}
		return filepath.Join(o.Dir, string(col), meta.YearString, name), nil
	}
	if o.Corpus == nil {
		return "", errors.New("no output directory and no corpus config")
	}
	dir, err := o.Corpus.TEIDir(meta)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ResolveOutput builds the Output for cfg. The corpus config is optional
// when OUTPUT_DIR is set.
func ResolveOutput(cfg Config) (Output, error) {
	c, err := ResolveCorpus(cfg)
	if err != nil {
		if cfg.OutputDir != "" && errors.Is(err, ErrConfigNotFound) {
			return Output{Dir: cfg.OutputDir}, nil
		}
		return Output{}, err
	}
	return Output{Dir: cfg.OutputDir, Corpus: c}, nil
}
