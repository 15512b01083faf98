package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath is $XDG_CONFIG_HOME/batalert/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "batalert", "config.toml")
}

// DefaultHistoryPath is $XDG_STATE_HOME/batalert/history.db.
func DefaultHistoryPath() string {
	return filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "batalert", "history.db")
}

// DefaultSocketPath is $XDG_RUNTIME_DIR/batalert.sock, or a per-user file in
// the temp dir when there is no runtime dir.
func DefaultSocketPath() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return filepath.Join(v, "batalert.sock")
	}
	return filepath.Join(os.TempDir(), "batalert-"+userSuffix()+".sock")
}

func xdgDir(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), fallback)
	}
	return filepath.Join(home, fallback)
}

func userSuffix() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
