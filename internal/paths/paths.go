// Package paths resolves where puzzlebook keeps its configuration and its
// local data (solved marks, ink, preferences, logs).
//
// Directories resolve in precedence order: explicit flag, environment
// variable, config.yaml value (data directory only), platform default.
// Every returned path is absolute.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "puzzlebook"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PUZZLEBOOK_CONFIG_DIR"
	EnvDataDir   = "PUZZLEBOOK_DATA_DIR"
)

// Files kept in the resolved directories.
const (
	ConfigFile = "config.yaml"
	LogFile    = "puzzlebook.log"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getenv        func(string) string
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getenv:        os.Getenv,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/puzzlebook (fallback ~/.config/puzzlebook)
// macOS:   ~/Library/Application Support/puzzlebook
// Windows: %APPDATA%/puzzlebook
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/puzzlebook (fallback ~/.local/share/puzzlebook)
// macOS and Windows share the config directory.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := platformDir.getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > PUZZLEBOOK_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := platformDir.getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > PUZZLEBOOK_DATA_DIR > configValue (data_dir in config.yaml) > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, platformDir.getenv(EnvDataDir), configValue} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return DefaultDataDir()
}

// ConfigPath returns the config.yaml path inside configDir.
func ConfigPath(configDir string) string {
	return filepath.Join(configDir, ConfigFile)
}

// LogPath returns the log file path inside dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, LogFile)
}
