package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// UpsertSkillTarget inserts the target or, when the skill already has a
// target for the same tool, overwrites that row in place (keeping its ID).
func (db *DB) UpsertSkillTarget(target *models.SkillTarget) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "skill_id"}, {Name: "tool"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"target_path", "mode", "status", "last_error", "synced_at",
		}),
	}).Create(target).Error
}

// ListSkillTargets returns the targets of a skill ordered by tool.
func (db *DB) ListSkillTargets(skillID string) ([]models.SkillTarget, error) {
	var targets []models.SkillTarget
	err := db.Where("skill_id = ?", skillID).Order("tool ASC").Find(&targets).Error
	return targets, err
}

// ListAllSkillTargets returns every target in the registry.
func (db *DB) ListAllSkillTargets() ([]models.SkillTarget, error) {
	var targets []models.SkillTarget
	err := db.Order("tool ASC").Order("target_path ASC").Find(&targets).Error
	return targets, err
}

// ListAllSkillTargetPaths returns (tool, target_path) for every target.
func (db *DB) ListAllSkillTargetPaths() ([][2]string, error) {
	targets, err := db.ListAllSkillTargets()
	if err != nil {
		return nil, err
	}
	out := make([][2]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, [2]string{t.Tool, t.TargetPath})
	}
	return out, nil
}

// GetSkillTarget returns the target for (skillID, tool), or nil.
func (db *DB) GetSkillTarget(skillID, tool string) (*models.SkillTarget, error) {
	var target models.SkillTarget
	err := db.Where("skill_id = ? AND tool = ?", skillID, tool).First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &target, nil
}

// DeleteSkillTarget removes the target for (skillID, tool).
func (db *DB) DeleteSkillTarget(skillID, tool string) error {
	return db.Where("skill_id = ? AND tool = ?", skillID, tool).Delete(&models.SkillTarget{}).Error
}
