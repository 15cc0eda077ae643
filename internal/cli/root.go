// Package cli implements the teigest command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/teigest/internal/config"
	"github.com/dgallion1/teigest/internal/corpus"
	"github.com/dgallion1/teigest/internal/metadata"
)

var rootCmd = &cobra.Command{
	Use:   "teigest",
	Short: "Curate OCR output of parliamentary records into canonical TEI",
	Long: `teigest turns the OCR output of a parliamentary document into a TEI file:
it infers the document's metadata from its filename, assembles a
ParlaClarin document with content-addressed paragraph identifiers,
serializes it canonically and verifies that the written file survives a
parse and re-serialization unchanged.

Corpus locations come from a named corpus config (see "teigest config")
or from CORPUS_CONFIG / CORPUS_CONFIG_NAME in the environment or .env.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var corpusFlags struct {
	name string
	path string
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&corpusFlags.name, "config-name", "c", "",
		"Named corpus config from the registry (default: $CORPUS_CONFIG_NAME or \"default\")")
	rootCmd.PersistentFlags().StringVar(&corpusFlags.path, "config-path", "",
		"Corpus config file, bypassing the registry (default: $CORPUS_CONFIG)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if getVerboseFlag(cmd) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the process config and applies the corpus selection
// flags on top of it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if corpusFlags.name != "" {
		cfg.CorpusConfigName = corpusFlags.name
		cfg.CorpusConfig = ""
	}
	if corpusFlags.path != "" {
		cfg.CorpusConfig = corpusFlags.path
	}
	return cfg, cfg.Validate()
}

func openRegistry(cfg config.Config) (*config.Registry, error) {
	path := cfg.CorpusRegistry
	if path == "" {
		var err error
		if path, err = config.DefaultRegistryPath(); err != nil {
			return nil, err
		}
	}
	return config.LoadRegistry(path)
}

// filterFlagValues select documents by filename metadata.
type filterFlagValues struct {
	start, end int
	meeting    string
	chambers   []string
	doctypes   []string
	format     string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlagValues) {
	cmd.Flags().IntVarP(&f.start, "start", "s", 0, "First year to include")
	cmd.Flags().IntVarP(&f.end, "end", "e", 0, "Last year to include")
	cmd.Flags().StringVarP(&f.meeting, "meeting", "m", "", "Only the meeting directory data/{meeting}, e.g. 1877-1878")
	cmd.Flags().StringSliceVarP(&f.chambers, "chambers", "k", nil, "Chambers to include, e.g. adeln,borgare")
	cmd.Flags().StringSliceVarP(&f.doctypes, "doctypes", "d", nil,
		"Document types to include ("+joinTypes()+")")
	cmd.Flags().StringVarP(&f.format, "format", "f", corpus.FormatALTO,
		"Source format: "+strings.Join(corpus.Formats(), "|"))
}

func (f filterFlagValues) filter() (corpus.Filter, error) {
	if f.start > 0 && f.end > 0 && f.start > f.end {
		return corpus.Filter{}, fmt.Errorf("--start %d is after --end %d", f.start, f.end)
	}
	if !slices.Contains(corpus.Formats(), f.format) {
		return corpus.Filter{}, fmt.Errorf("unknown format %q", f.format)
	}
	filter := corpus.Filter{Start: f.start, End: f.end, Meeting: f.meeting, Chambers: f.chambers}
	for _, d := range f.doctypes {
		t := metadata.DocumentType(d)
		if !t.Valid() {
			return corpus.Filter{}, fmt.Errorf("unknown document type %q", d)
		}
		filter.DocumentTypes = append(filter.DocumentTypes, t)
	}
	for _, c := range f.chambers {
		if !metadata.KnownChamber(c) {
			return corpus.Filter{}, fmt.Errorf("unknown chamber %q", c)
		}
	}
	return filter, nil
}

func joinTypes() string {
	names := make([]string, len(metadata.DocumentTypes))
	for i, t := range metadata.DocumentTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

// discover finds the documents of the selected corpus that pass the filter.
func discover(cfg config.Config, f filterFlagValues) ([]corpus.Document, error) {
	filter, err := f.filter()
	if err != nil {
		return nil, err
	}
	c, err := config.ResolveCorpus(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus config: %w", err)
	}
	roots := c.Roots(f.format)
	if len(roots) == 0 {
		return nil, fmt.Errorf("corpus config %q has no %s locations", c.Name, f.format)
	}
	return corpus.Discover(roots, f.format, filter)
}
