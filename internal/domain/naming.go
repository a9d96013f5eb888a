package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// File and directory names.
const (
	AppName             = "mfnd"
	ConfigFileName      = "config.toml" // Global config file name
	LocalConfigFileName = ".mfnd.toml"  // Config file name in the working directory
	DatabaseFileName    = "todo_list.sqlite"
	StorePathEnv        = "MFND_DB" // Overrides [store] path
)

// DefaultStorePath is the database location used when none is configured.
var DefaultStorePath = filepath.Join("~", ".local", "share", AppName, DatabaseFileName)

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// GlobalConfigPath returns the global config file path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// LocalConfigPath returns the config file path in dir.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigFileName)
}

// DataDir returns the directory holding the database and logs.
func DataDir(storePath string) string {
	return filepath.Dir(storePath)
}

// LogPath returns the path to the session log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", AppName+".log")
}

// ExpandHome replaces a leading "~" with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(home, path[2:])
	}
	return path
}

// HeaderDateLayout is the date layout of the listing header.
const HeaderDateLayout = "January 02, 2006"

// Header returns the line printed above every listing.
func Header(t time.Time) string {
	return strings.ToUpper(AppName) + " - " + t.Format(HeaderDateLayout)
}
