// Package config handles application configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/starjokerZYJ/skills-hub/pkg/version"
)

// EnvPrefix prefixes every environment override (SKILLSHUB_BASE_DIR, ...).
const EnvPrefix = "SKILLSHUB"

// ComputeHashEnv opts release builds into content fingerprinting.
const ComputeHashEnv = "SKILLS_HUB_COMPUTE_HASH"

// Config holds all application configuration.
type Config struct {
	// BaseDir holds the registry, logs and config file (~/.skillshub).
	BaseDir string

	// CentralRepo is the canonical store root (<base>/skills).
	CentralRepo string

	// GitCacheDir holds cached clones.
	GitCacheDir string
	// GitCacheTTLSecs is the freshness window of a cached clone.
	// Zero or negative means every acquire refetches.
	GitCacheTTLSecs int64
	// GitCacheCleanupDays removes clones untouched for this many days at
	// startup. Zero disables cleanup.
	GitCacheCleanupDays int

	LogLevel string

	GitHubToken string

	// ComputeHash forces content fingerprints in release builds.
	ComputeHash bool
}

// Load reads configuration from <base>/config.yaml and SKILLSHUB_*
// environment variables, falling back to DefaultConfig.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	def := DefaultConfig()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_dir", def.BaseDir)
	v.SetDefault("git_cache_ttl_secs", def.GitCacheTTLSecs)
	v.SetDefault("git_cache_cleanup_days", def.GitCacheCleanupDays)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("central_repo", "")
	v.SetDefault("git_cache_dir", def.GitCacheDir)
	v.SetDefault("github_token", "")
	v.SetDefault("compute_hash", false)

	baseDir := expandHome(v.GetString("base_dir"))

	v.SetConfigFile(filepath.Join(baseDir, "config.yaml"))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		BaseDir:             baseDir,
		CentralRepo:         expandHome(v.GetString("central_repo")),
		GitCacheDir:         expandHome(v.GetString("git_cache_dir")),
		GitCacheTTLSecs:     v.GetInt64("git_cache_ttl_secs"),
		GitCacheCleanupDays: v.GetInt("git_cache_cleanup_days"),
		LogLevel:            v.GetString("log_level"),
		GitHubToken:         v.GetString("github_token"),
		ComputeHash:         v.GetBool("compute_hash"),
	}
	if cfg.CentralRepo == "" {
		cfg.CentralRepo = filepath.Join(cfg.BaseDir, "skills")
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ComputeContentHash reports whether content fingerprints should be
// computed. Development builds always compute them.
func (c *Config) ComputeContentHash() bool {
	if version.IsDevBuild() || c.ComputeHash {
		return true
	}
	return isTruthy(os.Getenv(ComputeHashEnv))
}

func isTruthy(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	paths := GetPaths(cfg)
	for _, dir := range []string{cfg.BaseDir, paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
