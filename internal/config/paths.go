package config

import (
	"os"
	"path/filepath"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database    string // Registry SQLite database
	Config      string // Config file
	Logs        string // Log directory
	CentralRepo string // Canonical store root
	GitCache    string // Cached clones
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database:    filepath.Join(cfg.BaseDir, "skills_hub.db"),
		Config:      filepath.Join(cfg.BaseDir, "config.yaml"),
		Logs:        filepath.Join(cfg.BaseDir, "logs"),
		CentralRepo: cfg.CentralRepo,
		GitCache:    cfg.GitCacheDir,
	}
}

// DefaultBaseDir returns the default base directory (~/.skillshub).
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillshub"
	}
	return filepath.Join(home, ".skillshub")
}
