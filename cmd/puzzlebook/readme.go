// Readme command: regenerate the infeasible-puzzle list in a README.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/readme"
)

var (
	flagReadmeFile       string
	flagReadmeImpossible string
)

var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Rewrite the infeasible-puzzle block of a README",
	Long: `Readme replaces the text between <!-- IMPOSSIBLE:START --> and
<!-- IMPOSSIBLE:END --> with the sorted list from impossible.json. The file is
left untouched when the block is already current.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed, err := readme.Update(flagReadmeFile, flagReadmeImpossible)
		if err != nil {
			if errors.Is(err, readme.ErrMarkersMissing) {
				return userError(fmt.Errorf("%s: %w", flagReadmeFile, err))
			}
			return sysError(err)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"file": flagReadmeFile, "changed": changed})
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", flagReadmeFile)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already up to date\n", flagReadmeFile)
		}
		return nil
	},
}

func init() {
	readmeCmd.Flags().StringVar(&flagReadmeFile, "file", "README.md", "README to rewrite")
	readmeCmd.Flags().StringVar(&flagReadmeImpossible, "impossible", "impossible.json", "infeasibility map")
}
