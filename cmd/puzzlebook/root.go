// Root command for the puzzlebook CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlebook/internal/paths"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagFeed      string
	flagJSON      bool
	flagDebug     bool
)

// Resolved by PersistentPreRunE for every subcommand.
var (
	appConfig types.Config
	logger    = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "puzzlebook",
	Short: "Browse a puzzle catalog with progressive hints and ink",
	Long: `puzzlebook browses a catalog of puzzles loaded from a feed directory or URL
(puzzles.json and the optional impossible.json). Solved marks, ink drawn over
images and the theme are kept in a local store.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return sysError(fmt.Errorf("resolve config dir: %w", err))
		}

		v, err := loadConfig(configDir)
		if err != nil {
			return sysError(err)
		}

		cfg, err := buildConfig(v)
		if err != nil {
			return userError(err)
		}
		appConfig = cfg

		level, err := logLevel(cfg.LogLevel, flagDebug)
		if err != nil {
			return userError(err)
		}
		zerolog.SetGlobalLevel(level)
		logger = newLogger(os.Stderr)
		logger.Debug().
			Str("config_dir", configDir).
			Str("data_dir", cfg.DataDir).
			Str("backend", cfg.Backend).
			Msg("configured")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir, or $PUZZLEBOOK_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir, or $PUZZLEBOOK_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagFeed, "feed", "", "feed directory or URL holding puzzles.json (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(solvedCmd)
	rootCmd.AddCommand(inkCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(readmeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// logLevel picks the global level: --debug wins, otherwise the configured
// level name.
func logLevel(name string, debug bool) (zerolog.Level, error) {
	if debug {
		return zerolog.DebugLevel, nil
	}
	if name == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log_level %q: %w", name, err)
	}
	return level, nil
}

// newLogger returns a human-readable logger writing to w.
func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
}
