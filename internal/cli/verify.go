package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/teigest/internal/tei"
)

// ErrNotCanonical is returned when a verified file is not in canonical form.
var ErrNotCanonical = errors.New("files are not in canonical form")

var verifyCmd = &cobra.Command{
	Use:   "verify <tei files...>",
	Short: "Check that TEI files are in canonical form",
	Long: `Verify parses each TEI file, serializes it again and compares the bytes.
A file passes when the two are identical. The first differing byte is
reported for files that do not.

Examples:
  teigest verify corpus/data/1882/*.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err == nil {
			err = tei.Verify(data)
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
			continue
		}
		log.Debug("verified", "path", path, "bytes", len(data))
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(args), ErrNotCanonical)
	}
	return nil
}
