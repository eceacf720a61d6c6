package types

import "errors"

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// DefaultPageSize is the number of records per catalog page.
const DefaultPageSize = 10

// InkConfig bounds the ink table and sizes the drawing surface used by the
// CLI when no image box is known. Zero limits mean unbounded.
type InkConfig struct {
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`
	MaxBytes   int `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
	Width      int `json:"width" yaml:"width" mapstructure:"width"`
	Height     int `json:"height" yaml:"height" mapstructure:"height"`
}

// Config holds backend selection and session parameters.
type Config struct {
	Backend   string    `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir   string    `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	Feed      string    `json:"feed" yaml:"feed" mapstructure:"feed"`
	PageSize  int       `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
	RevealAll bool      `json:"reveal_all" yaml:"reveal_all" mapstructure:"reveal_all"`
	LogLevel  string    `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Ink       InkConfig `json:"ink" yaml:"ink" mapstructure:"ink"`
}

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrPageSizeInvalid = errors.New("page size must be positive")
	ErrInkLimitInvalid = errors.New("ink limits must not be negative")
	ErrInkBoxInvalid   = errors.New("ink surface size must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendBadger: true,
}

// Validate checks that the Config is well-formed. A zero PageSize is
// accepted and means DefaultPageSize.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.PageSize < 0 {
		return ErrPageSizeInvalid
	}
	if c.Ink.MaxEntries < 0 || c.Ink.MaxBytes < 0 {
		return ErrInkLimitInvalid
	}
	if c.Ink.Width < 0 || c.Ink.Height < 0 {
		return ErrInkBoxInvalid
	}
	return nil
}

// EffectivePageSize returns PageSize, or DefaultPageSize when unset.
func (c Config) EffectivePageSize() int {
	if c.PageSize < 1 {
		return DefaultPageSize
	}
	return c.PageSize
}
