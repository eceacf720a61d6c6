// List, show and random commands for the puzzlebook CLI.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
)

var (
	flagListPage  int
	flagRevealAll bool
	flagHints     int
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List one page of puzzles matching a query",
	Long: `List prints one page of the catalog. The query matches the #NNN tag, the
title, the infeasibility reason and the solution text, case-insensitively.`,
	Example: `  puzzlebook list
  puzzlebook list maze --page 2
  puzzlebook list '#04' --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, s, err := openSession(cmd.Context(), session.Options{RevealAll: appConfig.RevealAll}, logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		sess.SetQuery(strings.Join(args, " "))
		if cmd.Flags().Changed("page") {
			sess.SetPage(flagListPage)
		}

		page := sess.Page()
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), newPageJSON(page, sess.View().PageSize()))
		}
		writePage(cmd.OutOrStdout(), page)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one puzzle with its hints and solution",
	Long: `Show opens one puzzle the way the browser does. Hint 1 starts unlocked and
each opened hint unlocks the next. --hints N opens hints 1 through N in order;
--reveal-all starts with hint 1 and the solution open.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if flagHints < 0 || flagHints > disclosure.HintCount {
			return userError(fmt.Errorf("--hints must be between 0 and %d", disclosure.HintCount))
		}

		sess, s, err := openSession(cmd.Context(), session.Options{RevealAll: flagRevealAll || appConfig.RevealAll}, logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		page := sess.View().PageOf(id)
		if page == 0 {
			return userError(fmt.Errorf("puzzle %q not found", args[0]))
		}
		sess.SetPage(page)
		if _, err := sess.ToggleOpen(id); err != nil {
			return sysError(err)
		}
		for k := 1; k <= flagHints; k++ {
			m, _ := sess.Machine(id)
			if st, _ := m.State(k); st == disclosure.UnlockedOpen {
				continue
			}
			if _, err := sess.ToggleHint(id, k); err != nil && !errors.Is(err, disclosure.ErrLocked) {
				return sysError(err)
			}
		}

		it, _ := findItem(sess.Page(), id)
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), detailJSON(it))
		}
		writeDetail(cmd.OutOrStdout(), it)
		return nil
	},
}

var randomCmd = &cobra.Command{
	Use:   "random [query]",
	Short: "Jump to a random puzzle among those matching a query",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, s, err := openSession(cmd.Context(), session.Options{RevealAll: appConfig.RevealAll}, logger)
		if err != nil {
			return err
		}
		defer s.Detach()

		sess.SetQuery(strings.Join(args, " "))
		r, ok := sess.RandomJump()
		if !ok {
			return userError(errors.New("no puzzles match"))
		}

		page := sess.Page()
		it, _ := findItem(page, r.ID)
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), struct {
				Page   int        `json:"page"`
				Record recordJSON `json:"record"`
			}{page.Pager.Page, detailJSON(it)})
		}
		fmt.Fprintln(cmd.OutOrStdout(), page.Pager.Label)
		writeDetail(cmd.OutOrStdout(), it)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&flagListPage, "page", 0, "page number (clamped to the available pages)")
	showCmd.Flags().BoolVar(&flagRevealAll, "reveal-all", false, "open hint 1 and the solution")
	showCmd.Flags().IntVar(&flagHints, "hints", 0, "open hints 1 through N")
}
