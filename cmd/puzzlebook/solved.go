// Solved commands for the puzzlebook CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/persist"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

var solvedCmd = &cobra.Command{
	Use:   "solved",
	Short: "Manage solved marks",
}

var solvedToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip the solved mark of a puzzle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		s, err := openStore(logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		solved := persist.LoadSolved(table(s, types.SolvedTable, logger), logger)
		now := solved.Toggle(id)
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id, "solved": now})
		}
		state := "unsolved"
		if now {
			state = "solved"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "#%s marked %s\n", types.PadID(id), state)
		return nil
	},
}

var solvedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List solved puzzle ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		ids := persist.LoadSolved(table(s, types.SolvedTable, logger), logger).IDs()
		if flagJSON {
			if ids == nil {
				ids = []int{}
			}
			return writeJSON(cmd.OutOrStdout(), ids)
		}
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "#%s\n", types.PadID(id))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d solved\n", len(ids))
		return nil
	},
}

func init() {
	solvedCmd.AddCommand(solvedToggleCmd)
	solvedCmd.AddCommand(solvedListCmd)
}
