package domain

import (
	"context"
	"time"
)

// TaskStore is the durable, ordered task store the tree is rebuilt from.
// Every mutation keeps sibling positions contiguous and runs in a single
// transaction.
type TaskStore interface {
	// Initialize prepares the store: it clears all tasks when a pumpkin
	// time has elapsed since the last initialization, seeds the root and
	// default mode nodes when missing, and records now as the last
	// initialization time.
	Initialize(ctx context.Context, now time.Time) error

	// Records returns every record ordered by depth, then position.
	Records(ctx context.Context) ([]Record, error)

	// Insert stores a new record and returns its identifier.
	// Position 0 appends after the last sibling; any other position
	// shifts siblings at or after it by one.
	Insert(ctx context.Context, rec NewRecord) (int64, error)

	// Delete removes a record and all of its descendants and closes the
	// position gap among the remaining siblings.
	Delete(ctx context.Context, id int64) error

	// UpdateStatus sets the completion status of a record.
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// PumpkinTime returns the configured daily reset time.
	PumpkinTime(ctx context.Context) (PumpkinTime, error)

	// ConfigurePumpkinTime persists a new daily reset time.
	ConfigurePumpkinTime(ctx context.Context, p PumpkinTime) error

	// Close releases the underlying resources.
	Close() error
}

// Logger records diagnostic messages for a session.
type Logger interface {
	Info(category, msg string)
	Debug(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards every message.
type NopLogger struct{}

func (NopLogger) Info(string, string)  {}
func (NopLogger) Debug(string, string) {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + local).
	Load() (*Config, error)

	// Sources returns the config files that were found, in merge order.
	Sources() []ConfigInfo
}

// ConfigManager creates configuration files.
type ConfigManager interface {
	// InitGlobalConfig writes cfg to the global config file and returns
	// its path. It fails with ErrConfigExists if the file exists.
	InitGlobalConfig(cfg *Config) (string, error)
}

// ConfigInfo describes one configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
