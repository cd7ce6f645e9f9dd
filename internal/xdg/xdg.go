// Package xdg provides helpers to resolve XDG Base Directory paths for moviecat.
// Configuration lives under the config dir; the SQLite credential store and the
// encrypted keyring file fallback live under the data dir.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base directory.
const AppName = "moviecat"

// ConfigDir returns the XDG config directory for moviecat.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/moviecat when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for moviecat, falling back to
// ~/.local/share/moviecat when XDG_DATA_HOME is unset.
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func resolve(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
