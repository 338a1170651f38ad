package models

// Setting is a key/value pair persisted in the registry.
type Setting struct {
	Key   string `gorm:"primaryKey;size:100" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}

// TableName specifies the table name for GORM.
func (Setting) TableName() string {
	return "settings"
}

// Setting keys.
const (
	SettingCentralRepoPath     = "central_repo_path"
	SettingGitCacheTTLSecs     = "git_cache_ttl_secs"
	SettingGitCacheCleanupDays = "git_cache_cleanup_days"
)
