package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/teigest/internal/config"
	"github.com/dgallion1/teigest/internal/metadata"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage named corpus configs",
	Long: `A corpus config records, per collection, the directory of each format
(tei, alto, pdf, ...). Named configs are tracked in a registry file
($CORPUS_REGISTRY, or teigest/registry.yaml under the user config dir).

Available commands:
  track   Register an existing corpus config file under a name
  create  Write a new corpus config and register it
  show    Print a corpus config
  list    List registered names`,
}

var configTrackCmd = &cobra.Command{
	Use:   "track <name> <file>",
	Short: "Register an existing corpus config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigTrack,
}

var configCreateCmd = &cobra.Command{
	Use:   "create <name> <file>",
	Short: "Write a new corpus config and register it",
	Long: `Create writes a corpus config file and tracks it under name.
Locations are given as --set {collection}.{format}={dir}.

Examples:
  teigest config create riksdag ./riksdag.yaml \
    --set records.tei=../riksdagen-records \
    --set records.alto=../riksdagen-records-alto`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigCreate,
}

var configShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a corpus config as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigShow,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered corpus configs",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configFlags struct {
	overwrite bool
	set       map[string]string
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTrackCmd, configCreateCmd, configShowCmd, configListCmd)
	configTrackCmd.Flags().BoolVar(&configFlags.overwrite, "overwrite", false, "Replace an existing name")
	configCreateCmd.Flags().StringToStringVar(&configFlags.set, "set", nil, "Location as {collection}.{format}={dir}")
}

func runConfigTrack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if _, err := config.LoadCorpus(args[1]); err != nil {
		return err
	}
	if err := reg.Track(args[0], args[1], configFlags.overwrite); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tracking %s\n", args[0])
	return nil
}

func runConfigCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	c := &config.Corpus{}
	for key, dir := range configFlags.set {
		col, format, ok := strings.Cut(key, ".")
		if !ok || format == "" {
			return fmt.Errorf("--set %s: want {collection}.{format}={dir}", key)
		}
		if err := c.Set(metadata.Collection(col), format, dir); err != nil {
			return fmt.Errorf("--set %s: %w", key, err)
		}
	}
	if err := reg.Create(args[0], args[1], c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s at %s\n", args[0], c.Path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.CorpusConfigName = args[0]
		cfg.CorpusConfig = ""
	}
	c, err := config.ResolveCorpus(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", c.Path)
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(c)
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	for _, name := range reg.Names() {
		loc, _ := reg.Lookup(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, loc)
	}
	return nil
}
