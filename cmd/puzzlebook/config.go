// Config loading for the puzzlebook CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/puzzlebook/internal/paths"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyFeed          = "feed"
	cfgKeyPageSize      = "page_size"
	cfgKeyRevealAll     = "reveal_all"
	cfgKeyLogLevel      = "log_level"
	cfgKeyInkMaxEntries = "ink.max_entries"
	cfgKeyInkMaxBytes   = "ink.max_bytes"
	cfgKeyInkWidth      = "ink.width"
	cfgKeyInkHeight     = "ink.height"
)

// Defaults applied when config.yaml leaves a key unset.
const (
	defaultBackend   = types.BackendSQLite
	defaultFeed      = "."
	defaultLogLevel  = "warn"
	defaultInkWidth  = 800
	defaultInkHeight = 600
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# puzzlebook configuration

# Store backend: sqlite or badger
backend: sqlite

# Data directory (optional; overridden by --data-dir or $PUZZLEBOOK_DATA_DIR)
# data_dir:

# Feed directory or URL holding puzzles.json and impossible.json
feed: .

page_size: 10

# Open hint 1 and the solution on every record when a page is drawn
reveal_all: false

# trace, debug, info, warn, error
log_level: warn

ink:
  # Zero means unbounded
  max_entries: 0
  max_bytes: 0
  # Surface size for ink commands
  width: 800
  height: 600
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyFeed, defaultFeed)
	v.SetDefault(cfgKeyPageSize, types.DefaultPageSize)
	v.SetDefault(cfgKeyRevealAll, false)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyInkMaxEntries, 0)
	v.SetDefault(cfgKeyInkMaxBytes, 0)
	v.SetDefault(cfgKeyInkWidth, defaultInkWidth)
	v.SetDefault(cfgKeyInkHeight, defaultInkHeight)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigPath(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// buildConfig decodes v into a Config, applies flag overrides and resolves
// the data directory.
func buildConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDir
	if flagFeed != "" {
		cfg.Feed = flagFeed
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
