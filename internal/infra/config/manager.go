package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/mfnd/internal/domain"
)

// template is the commented shape written by InitGlobalConfig.
type template struct {
	Store struct {
		Path    string `toml:"path" comment:"Task store file (MFND_DB overrides)"`
		Backend string `toml:"backend" comment:"sqlite or json"`
	} `toml:"store"`
	Reset struct {
		Pumpkin string `toml:"pumpkin" comment:"Daily reset time (HHMM, 24h) used until 'pumpkin' is run"`
	} `toml:"reset"`
	Log struct {
		Level string `toml:"level" comment:"debug, info, warn or error"`
	} `toml:"log"`
	Labels struct {
		Encodings []string `toml:"encodings" comment:"Label encoding per level (decimal or alpha); the last one repeats"`
	} `toml:"labels"`
	UI struct {
		Plain bool `toml:"plain" comment:"Use the plain line shell even on a terminal"`
	} `toml:"ui"`
}

// Manager creates configuration files.
type Manager struct {
	globalConfDir string // Path to global config directory (e.g., ~/.config/mfnd)
}

// NewManager creates a new Manager.
func NewManager() *Manager {
	return &Manager{globalConfDir: defaultGlobalConfigDir()}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(globalConfDir string) *Manager {
	return &Manager{globalConfDir: globalConfDir}
}

// GlobalConfigPath returns the global config file path.
func (m *Manager) GlobalConfigPath() string {
	if m.globalConfDir == "" {
		return ""
	}
	return filepath.Join(m.globalConfDir, domain.ConfigFileName)
}

// InitGlobalConfig writes a global config file holding cfg's values.
// It fails with domain.ErrConfigExists if the file is already there.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	path := m.GlobalConfigPath()
	if path == "" {
		return "", errors.New("global config directory not available")
	}
	if _, err := os.Stat(path); err == nil {
		return path, domain.ErrConfigExists
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", err
	}

	content, err := RenderTemplate(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// RenderTemplate encodes cfg as a commented TOML document.
func RenderTemplate(cfg *domain.Config) ([]byte, error) {
	var tpl template
	tpl.Store.Path = cfg.Store.Path
	tpl.Store.Backend = cfg.Store.Backend
	tpl.Reset.Pumpkin = cfg.Reset.Pumpkin
	tpl.Log.Level = cfg.Log.Level
	tpl.Labels.Encodings = cfg.Labels.Encodings
	tpl.UI.Plain = cfg.UI.Plain

	out, err := toml.Marshal(tpl)
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return out, nil
}
