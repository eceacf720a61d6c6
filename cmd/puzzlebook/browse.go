// Browse command: the interactive terminal browser.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/paths"
	"github.com/mesh-intelligence/puzzlebook/internal/session"
	"github.com/mesh-intelligence/puzzlebook/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Browse opens the full-screen catalog browser. Logs go to puzzlebook.log in
the data directory while it runs. With a puzzle open, d draws over its images
with the mouse.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := zerolog.Nop()
		if logFile, err := openLogFile(); err == nil {
			defer logFile.Close()
			log = zerolog.New(logFile).With().Timestamp().Str("cmd", "browse").Logger()
		}

		sess, s, err := openSession(cmd.Context(), session.Options{RevealAll: appConfig.RevealAll}, log)
		if err != nil {
			return err
		}
		defer s.Detach()

		p := tea.NewProgram(tui.New(sess, log),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := p.Run(); err != nil {
			return sysError(fmt.Errorf("run browser: %w", err))
		}
		log.Info().Int("solved", sess.Page().Solved).Msg("browser closed")
		return nil
	},
}

// openLogFile opens the browse log in the data dir for appending.
func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(appConfig.DataDir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(paths.LogPath(appConfig.DataDir), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
