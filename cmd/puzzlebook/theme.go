// Theme command for the puzzlebook CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/persist"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

var themeCmd = &cobra.Command{
	Use:       "theme [toggle|light|dark]",
	Short:     "Show or change the colour theme",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"toggle", string(types.ThemeLight), string(types.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		pref := persist.LoadTheme(table(s, types.PrefsTable, logger), logger)
		if len(args) == 1 {
			if args[0] == "toggle" {
				pref.Toggle()
			} else {
				theme, _ := types.ParseTheme(args[0])
				pref.Set(theme)
			}
		}

		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]string{"theme": pref.Get().String()})
		}
		fmt.Fprintln(cmd.OutOrStdout(), pref.Get())
		return nil
	},
}
