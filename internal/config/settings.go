package config

import (
	"strconv"
	"strings"

	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// SettingsReader reads persisted registry settings.
type SettingsReader interface {
	GetSetting(key string) (string, bool, error)
}

// CentralRepoPath returns the canonical store root, preferring the
// registry setting over the file configuration.
func CentralRepoPath(cfg *Config, s SettingsReader) string {
	if v := setting(s, models.SettingCentralRepoPath); v != "" {
		return expandHome(v)
	}
	return cfg.CentralRepo
}

// GitCacheTTLSecs returns the clone freshness window in seconds.
func GitCacheTTLSecs(cfg *Config, s SettingsReader) int64 {
	if v := setting(s, models.SettingGitCacheTTLSecs); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return cfg.GitCacheTTLSecs
}

// GitCacheCleanupDays returns the age in days after which cached clones
// are removed at startup.
func GitCacheCleanupDays(cfg *Config, s SettingsReader) int {
	if v := setting(s, models.SettingGitCacheCleanupDays); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return cfg.GitCacheCleanupDays
}

func setting(s SettingsReader, key string) string {
	if s == nil {
		return ""
	}
	v, ok, err := s.GetSetting(key)
	if err != nil || !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
