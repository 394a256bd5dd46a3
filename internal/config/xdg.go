// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "stuntrack"

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

// DefaultStorePath returns the default record file for a store backend.
func DefaultStorePath(backend string) string {
	if backend == "sqlite" {
		return filepath.Join(XDGDataHome(), appDir, "stuntrack.db")
	}
	return filepath.Join(XDGDataHome(), appDir, "data_stunting.csv")
}

// DefaultReportDir returns the directory where reports are written.
func DefaultReportDir() string {
	return filepath.Join(XDGDataHome(), appDir, "laporan_gizi")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}
