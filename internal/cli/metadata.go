package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/teigest/internal/metadata"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <filename...>",
	Short: "Show the metadata inferred from corpus filenames",
	Long: `Metadata prints, as YAML, what each filename says about its document:
document type, year, chamber, number and collection.

Examples:
  teigest metadata prot_1877-1878_borgare_II.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}

type metadataView struct {
	metadata.Metadata `yaml:",inline"`
	Collection        metadata.Collection `yaml:"collection,omitempty"`
	Title             string              `yaml:"title"`
}

func runMetadata(cmd *cobra.Command, args []string) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()

	for _, name := range args {
		meta, err := metadata.Infer(name)
		if err != nil {
			return err
		}
		col, _ := meta.Collection()
		if err := enc.Encode(metadataView{Metadata: meta, Collection: col, Title: meta.Title()}); err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
	}
	return nil
}
