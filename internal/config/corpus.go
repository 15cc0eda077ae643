package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/teigest/internal/metadata"
)

// ErrConfigNotFound is returned when a config file or a named config does
// not exist. Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config not found")

// Location maps a document format ("tei", "alto", "pdf", ...) to a directory.
type Location map[string]string

// Corpus holds where each collection keeps each format on disk.
type Corpus struct {
	Name       string   `yaml:"name"`
	Records    Location `yaml:"records,omitempty"`
	Handlingar Location `yaml:"handlingar,omitempty"`
	Register   Location `yaml:"register,omitempty"`

	// Path is the file the corpus config was loaded from or is saved to.
	Path string `yaml:"-"`
}

// LoadCorpus reads a corpus config. A missing file yields ErrConfigNotFound.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, err
	}

	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse corpus config %s: %w", path, err)
	}
	c.Path = path
	return &c, nil
}

// Save writes the corpus config to its Path.
func (c *Corpus) Save() error {
	if c.Path == "" {
		return errors.New("corpus config has no path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal corpus config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(c.Path, data, 0o644)
}

// Collection returns the locations of one collection.
func (c *Corpus) Collection(col metadata.Collection) Location {
	switch col {
	case metadata.CollectionRecords:
		return c.Records
	case metadata.CollectionHandlingar:
		return c.Handlingar
	case metadata.CollectionRegister:
		return c.Register
	}
	return nil
}

// Set assigns the directory of a format within a collection.
func (c *Corpus) Set(col metadata.Collection, format, dir string) error {
	loc := c.Collection(col)
	if loc == nil {
		loc = Location{}
		switch col {
		case metadata.CollectionRecords:
			c.Records = loc
		case metadata.CollectionHandlingar:
			c.Handlingar = loc
		case metadata.CollectionRegister:
			c.Register = loc
		default:
			return fmt.Errorf("unknown collection %q", col)
		}
	}
	loc[format] = dir
	return nil
}

// Roots lists the configured directories of a format across collections.
func (c *Corpus) Roots(format string) []string {
	var roots []string
	for _, col := range []metadata.Collection{metadata.CollectionRecords, metadata.CollectionHandlingar, metadata.CollectionRegister} {
		if dir := c.Collection(col)[format]; dir != "" {
			roots = append(roots, dir)
		}
	}
	return roots
}

// TEIDir is where the TEI file of a document belongs: the data directory of
// its collection's TEI location, by year.
func (c *Corpus) TEIDir(meta metadata.Metadata) (string, error) {
	col, err := meta.Collection()
	if err != nil {
		return "", err
	}
	dir := c.Collection(col)["tei"]
	if dir == "" {
		return "", fmt.Errorf("corpus config %q has no tei location for %s", c.Name, col)
	}
	return filepath.Join(dir, "data", meta.YearString), nil
}
