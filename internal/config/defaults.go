package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Defaults.
const (
	DefaultGitCacheTTLSecs     = 60
	DefaultGitCacheCleanupDays = 30
	DefaultLogLevel            = "info"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	base := DefaultBaseDir()
	return &Config{
		BaseDir:             base,
		CentralRepo:         filepath.Join(base, "skills"),
		GitCacheDir:         DefaultGitCacheDir(),
		GitCacheTTLSecs:     DefaultGitCacheTTLSecs,
		GitCacheCleanupDays: DefaultGitCacheCleanupDays,
		LogLevel:            DefaultLogLevel,
	}
}

// DefaultGitCacheDir returns $XDG_CACHE_HOME/skills-hub/git-cache.
func DefaultGitCacheDir() string {
	return filepath.Join(xdg.CacheHome, "skills-hub", "git-cache")
}
