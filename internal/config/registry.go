package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned when tracking a name that is already taken.
var ErrConfigExists = errors.New("named config already exists")

// RegistryFileName is the registry file inside the user config directory.
const RegistryFileName = "registry.yaml"

// Registry maps config names to corpus config files.
type Registry struct {
	Configs map[string]string `yaml:"configs"`

	path string
}

// DefaultRegistryPath is the registry location when CORPUS_REGISTRY is unset.
func DefaultRegistryPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "teigest", RegistryFileName), nil
}

// LoadRegistry reads the registry at path. A missing file is an empty
// registry.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{Configs: map[string]string{}, path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if r.Configs == nil {
		r.Configs = map[string]string{}
	}
	return r, nil
}

// Track assigns name to an existing corpus config file and saves the
// registry. An existing name is only replaced when overwrite is set.
func (r *Registry) Track(name, location string, overwrite bool) error {
	if name == "" || location == "" {
		return errors.New("track config: name and location are required")
	}
	if _, ok := r.Configs[name]; ok && !overwrite {
		return fmt.Errorf("track config %q: %w", name, ErrConfigExists)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return fmt.Errorf("track config: %w", err)
	}
	r.Configs[name] = abs
	return r.save()
}

// Lookup returns the file a name points at.
func (r *Registry) Lookup(name string) (string, error) {
	loc, ok := r.Configs[name]
	if !ok {
		return "", fmt.Errorf("named config %q: %w", name, ErrConfigNotFound)
	}
	return loc, nil
}

// Names returns the tracked names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Configs))
	for n := range r.Configs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Create writes a new corpus config at location and tracks it under name.
func (r *Registry) Create(name, location string, c *Corpus) error {
	if _, ok := r.Configs[name]; ok {
		return fmt.Errorf("create config %q: %w", name, ErrConfigExists)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	c.Name = name
	c.Path = abs
	if err := c.Save(); err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	return r.Track(name, abs, false)
}

func (r *Registry) save() error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	return os.WriteFile(r.path, data, 0o644)
}

// ResolveCorpus loads the corpus config selected by cfg: the explicit file
// when CORPUS_CONFIG is set, otherwise the registry entry named by
// CORPUS_CONFIG_NAME.
func ResolveCorpus(cfg Config) (*Corpus, error) {
	if cfg.CorpusConfig != "" {
		return LoadCorpus(cfg.CorpusConfig)
	}

	regPath := cfg.CorpusRegistry
	if regPath == "" {
		var err error
		if regPath, err = DefaultRegistryPath(); err != nil {
			return nil, err
		}
	}
	reg, err := LoadRegistry(regPath)
	if err != nil {
		return nil, err
	}
	loc, err := reg.Lookup(cfg.CorpusConfigName)
	if err != nil {
		return nil, err
	}
	return LoadCorpus(loc)
}
