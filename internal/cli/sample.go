package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/teigest/internal/corpus"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw a stratified sample of corpus documents",
	Long: `Sample discovers documents like curate does and draws up to -n of them
per stratum. The same seed always draws the same sample. With --pages,
page files are drawn instead of whole documents.

The sample is printed one source path per line, so it can be passed to
"teigest curate".

Examples:
  # Two documents per year and chamber
  teigest sample -n 2 --seed gold

  # Five ALTO pages per year
  teigest sample -n 5 --by year --pages --seed gold`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

var sampleFlags struct {
	filter filterFlagValues
	n      int
	by     []string
	seed   string
	pages  bool
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	addFilterFlags(sampleCmd, &sampleFlags.filter)
	sampleCmd.Flags().IntVarP(&sampleFlags.n, "count", "n", 1, "Items per stratum")
	sampleCmd.Flags().StringSliceVar(&sampleFlags.by, "by", []string{corpus.StratumYear, corpus.StratumChamber},
		"Strata: year, chamber, doctype")
	sampleCmd.Flags().StringVar(&sampleFlags.seed, "seed", "", "Random seed (default: a fresh random sample)")
	sampleCmd.Flags().BoolVar(&sampleFlags.pages, "pages", false, "Draw page files instead of documents")
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	docs, err := discover(cfg, sampleFlags.filter)
	if err != nil {
		return err
	}
	newLogger(cmd).Debug("discovered documents", "count", len(docs))

	sample, err := corpus.Sample(docs, corpus.SampleOptions{
		N:     sampleFlags.n,
		By:    sampleFlags.by,
		Seed:  sampleFlags.seed,
		Pages: sampleFlags.pages,
	})
	if err != nil {
		return err
	}
	for _, d := range sample {
		for _, src := range d.Sources {
			fmt.Fprintln(cmd.OutOrStdout(), src)
		}
	}
	return nil
}
