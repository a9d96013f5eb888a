// Package config provides configuration loading functionality.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/mfnd/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// fileConfig is the on-disk shape of a config file. Pointer fields tell
// keys that were set apart from keys that were omitted.
type fileConfig struct {
	Store  storeSection  `toml:"store"`
	Reset  resetSection  `toml:"reset"`
	Log    logSection    `toml:"log"`
	Labels labelsSection `toml:"labels"`
	UI     uiSection     `toml:"ui"`
}

type storeSection struct {
	Path    *string `toml:"path"`
	Backend *string `toml:"backend"`
}

type resetSection struct {
	Pumpkin *string `toml:"pumpkin"`
}

type logSection struct {
	Level *string `toml:"level"`
}

type labelsSection struct {
	Encodings []string `toml:"encodings"`
}

type uiSection struct {
	Plain *bool `toml:"plain"`
}

// Loader loads configuration from TOML files.
// Fields are ordered to minimize memory padding.
type Loader struct {
	getenv        func(string) string
	workDir       string // Directory searched for .mfnd.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/mfnd)
	home          string // Home directory used to expand "~"
}

// NewLoader creates a new Loader.
func NewLoader(workDir string) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		workDir:       workDir,
		globalConfDir: defaultGlobalConfigDir(),
		home:          home,
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(workDir, globalConfDir, home string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		workDir:       workDir,
		globalConfDir: globalConfDir,
		home:          home,
		getenv:        getenv,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Merge order: default <- global <- local <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	for _, path := range l.paths() {
		fc, warnings, err := loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		mergeConfig(base, fc)
		base.Warnings = append(base.Warnings, warnings...)
	}

	if v := l.getenv(domain.StorePathEnv); v != "" {
		base.Store.Path = v
	}
	if l.home != "" {
		base.Store.Path = domain.ExpandHome(base.Store.Path, l.home)
	}
	base.Log.Level = strings.ToLower(base.Log.Level)

	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return base, nil
}

// Sources returns the config files considered, in merge order.
func (l *Loader) Sources() []domain.ConfigInfo {
	paths := l.paths()
	infos := make([]domain.ConfigInfo, 0, len(paths))
	for _, path := range paths {
		infos = append(infos, configInfo(path))
	}
	return infos
}

// paths returns the global and local config paths that apply.
func (l *Loader) paths() []string {
	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	if l.workDir != "" {
		paths = append(paths, domain.LocalConfigPath(l.workDir))
	}
	return paths
}

// loadFile decodes a config file. Unknown keys are reported as warnings
// rather than errors.
func loadFile(path string) (*fileConfig, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var fc fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err = dec.Decode(&fc)
	if err == nil {
		return &fc, nil, nil
	}

	var strict *toml.StrictMissingError
	if !errors.As(err, &strict) {
		return nil, nil, err
	}
	warnings := make([]string, 0, len(strict.Errors))
	for i := range strict.Errors {
		key := strings.Join(strict.Errors[i].Key(), ".")
		warnings = append(warnings, fmt.Sprintf("unknown key in %s: %s", filepath.Base(path), key))
	}
	sort.Strings(warnings)

	fc = fileConfig{}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, nil, err
	}
	return &fc, warnings, nil
}

// mergeConfig overlays the keys set in fc onto base.
func mergeConfig(base *domain.Config, fc *fileConfig) {
	if fc.Store.Path != nil {
		base.Store.Path = *fc.Store.Path
	}
	if fc.Store.Backend != nil {
		base.Store.Backend = *fc.Store.Backend
	}
	if fc.Reset.Pumpkin != nil {
		base.Reset.Pumpkin = *fc.Reset.Pumpkin
	}
	if fc.Log.Level != nil {
		base.Log.Level = *fc.Log.Level
	}
	if len(fc.Labels.Encodings) > 0 {
		base.Labels.Encodings = fc.Labels.Encodings
	}
	if fc.UI.Plain != nil {
		base.UI.Plain = *fc.UI.Plain
	}
}

// configInfo reads a config file and returns its info.
func configInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}
