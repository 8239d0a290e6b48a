// Package xdg provides helpers to resolve XDG Base Directory paths for gisthub.
// It implements the XDG Base Directory specification for determining where
// the config file and the log file live on Unix-like systems.
//
// The package falls back to the traditional locations when the XDG
// environment variables are not set, and creates directories private to the
// user because the config may name token environment variables and the log
// records request URLs.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every base directory.
const AppName = "gisthub"

// ConfigDir returns the XDG config directory for gisthub.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/gisthub when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for gisthub.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/gisthub when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return appDir("XDG_STATE_HOME", ".local", "state")
}

func appDir(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
