// Export and import commands: JSONL backups of the local store.
package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/persist"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Back up solved marks, ink and preferences as JSONL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		counts, err := persist.Export(s, args[0])
		if err != nil {
			return sysError(err)
		}
		return reportCounts(cmd.OutOrStdout(), "exported", counts)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Restore a JSONL backup into the local store",
	Long: `Import writes every entry of a backup made by export into the store,
overwriting entries with the same key. Missing table files and malformed
lines are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		counts, err := persist.Import(s, args[0])
		if err != nil {
			return sysError(err)
		}
		return reportCounts(cmd.OutOrStdout(), "imported", counts)
	},
}

func reportCounts(w io.Writer, verb string, counts map[string]int) error {
	if flagJSON {
		return writeJSON(w, counts)
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s %d %s entries\n", verb, counts[name], name)
	}
	return nil
}
