// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "shelfstats"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the default path for the library database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDir, "library.db")
}

// DefaultPrefsPath returns the default path for the preference file.
func DefaultPrefsPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "prefs.toml")
}
