package domain

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Store    StoreConfig  // [store] settings
	Reset    ResetConfig  // [reset] settings
	Log      LogConfig    // [log] settings
	Labels   LabelsConfig // [labels] settings
	UI       UIConfig     // [ui] settings
	Warnings []string     // Unknown keys found while loading
}

// StoreConfig holds durable store settings from the [store] section.
type StoreConfig struct {
	Path    string // Store file path ("~" is expanded)
	Backend string // sqlite or json
}

// Store backends accepted in [store] backend.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// ResetConfig holds daily reset settings from the [reset] section.
type ResetConfig struct {
	Pumpkin string // HHMM applied when the store has no pumpkin time yet
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// LabelsConfig holds label settings from the [labels] section.
type LabelsConfig struct {
	Encodings []string // One encoding per visible level; the last repeats
}

// UIConfig holds shell settings from the [ui] section.
type UIConfig struct {
	Plain bool // Use the line REPL even on a terminal
}

// Log levels accepted in [log] level.
var logLevels = []any{"debug", "info", "warn", "error"}

var pumpkinRule = validation.Match(regexp.MustCompile(`^([01][0-9]|2[0-3])[0-5][0-9]$`))

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:    DefaultStorePath,
			Backend: BackendSQLite,
		},
		Reset: ResetConfig{
			Pumpkin: DefaultPumpkinTime.String(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Labels: LabelsConfig{
			Encodings: DefaultLabelScheme().Names(),
		},
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	return validation.Errors{
		"store.path":    validation.Validate(c.Store.Path, validation.Required),
		"store.backend": validation.Validate(c.Store.Backend, validation.In(BackendSQLite, BackendJSON)),
		"reset.pumpkin": validation.Validate(c.Reset.Pumpkin, pumpkinRule),
		"log.level":     validation.Validate(strings.ToLower(c.Log.Level), validation.In(logLevels...)),
		"labels.encodings": validation.Validate(c.Labels.Encodings,
			validation.Each(validation.In(string(EncodingDecimal), string(EncodingAlpha)))),
	}.Filter()
}

// LabelScheme returns the label scheme described by [labels].
func (c *Config) LabelScheme() (LabelScheme, error) {
	return NewLabelScheme(c.Labels.Encodings)
}

// PumpkinTime returns the configured default pumpkin time.
func (c *Config) PumpkinTime() (PumpkinTime, error) {
	if c.Reset.Pumpkin == "" {
		return DefaultPumpkinTime, nil
	}
	return ParsePumpkinTime(c.Reset.Pumpkin)
}
