package models

// Sync modes for a target.
const (
	ModeLink = "link"
	ModeCopy = "copy"
)

// SkillTarget records where a managed skill has been synchronized for one
// tool. A skill has at most one target per tool.
type SkillTarget struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	SkillID    string  `gorm:"size:36;not null;uniqueIndex:idx_skill_tool" json:"skill_id"`
	Tool       string  `gorm:"size:50;not null;uniqueIndex:idx_skill_tool" json:"tool"`
	TargetPath string  `gorm:"size:1024;not null" json:"target_path"`
	Mode       string  `gorm:"size:10;not null" json:"mode"`
	Status     string  `gorm:"size:20;not null" json:"status"`
	LastError  *string `gorm:"type:text" json:"last_error,omitempty"`
	SyncedAt   *int64  `json:"synced_at,omitempty"`
}

// TableName specifies the table name for GORM.
func (SkillTarget) TableName() string {
	return "skill_targets"
}

// IsCopy reports whether the target holds a copy rather than a link.
func (t *SkillTarget) IsCopy() bool {
	return t.Mode == ModeCopy
}
