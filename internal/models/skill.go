// Package models defines the registry records for skills-hub.
package models

import "time"

// Source types.
const (
	SourceTypeLocal = "local"
	SourceTypeGit   = "git"
)

// Record statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Skill is the registry record for one managed skill bundle in the
// central repository. Timestamps are unix milliseconds.
type Skill struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	Name           string  `gorm:"size:255;not null;index" json:"name"`
	SourceType     string  `gorm:"size:20;not null" json:"source_type"`
	SourceRef      *string `gorm:"type:text" json:"source_ref,omitempty"`
	SourceRevision *string `gorm:"size:64" json:"source_revision,omitempty"`
	// SourceSubpath pins the repository subpath chosen from a candidate
	// list; "." is the repository root.
	SourceSubpath *string `gorm:"type:text" json:"source_subpath,omitempty"`
	CentralPath    string  `gorm:"size:1024;not null;uniqueIndex" json:"central_path"`
	ContentHash    *string `gorm:"size:64" json:"content_hash,omitempty"`

	CreatedAt  int64  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt  int64  `gorm:"not null;index;autoUpdateTime:false" json:"updated_at"`
	LastSyncAt *int64 `json:"last_sync_at,omitempty"`
	LastSeenAt int64  `gorm:"not null" json:"last_seen_at"`
	Status     string `gorm:"size:20;not null;default:ok" json:"status"`

	Metadata *SkillMetadata `gorm:"type:text;serializer:json" json:"metadata,omitempty"`

	Targets []SkillTarget `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM.
func (Skill) TableName() string {
	return "skills"
}

// IsGit reports whether the skill was installed from a git source.
func (s *Skill) IsGit() bool {
	return s.SourceType == SourceTypeGit
}

// Version returns the metadata version, or "" when none was recorded.
func (s *Skill) Version() string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata.Version
}

// NowMillis returns t as unix milliseconds.
func NowMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
