package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// UpsertSkill inserts the record or replaces every column of the record
// with the same ID.
func (db *DB) UpsertSkill(skill *models.Skill) error {
	return db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(skill).Error
}

// GetSkillByID returns the skill with the given ID, or nil if none exists.
func (db *DB) GetSkillByID(id string) (*models.Skill, error) {
	var skill models.Skill
	err := db.First(&skill, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

// GetSkillByName returns the most recently updated skill with the given name,
// or nil if none exists.
func (db *DB) GetSkillByName(name string) (*models.Skill, error) {
	var skill models.Skill
	err := db.Where("name = ?", name).Order("updated_at DESC").First(&skill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

// ListSkills returns every skill, most recently updated first.
func (db *DB) ListSkills() ([]models.Skill, error) {
	var skills []models.Skill
	err := db.Order("updated_at DESC").Order("name ASC").Find(&skills).Error
	return skills, err
}

// ListSkillNames returns the names of all managed skills.
func (db *DB) ListSkillNames() ([]string, error) {
	var names []string
	err := db.Model(&models.Skill{}).Distinct().Order("name").Pluck("name", &names).Error
	return names, err
}

// DeleteSkill removes the skill and all of its targets.
func (db *DB) DeleteSkill(id string) error {
	return db.Transaction(func(tx *DB) error {
		if err := tx.Where("skill_id = ?", id).Delete(&models.SkillTarget{}).Error; err != nil {
			return fmt.Errorf("delete targets: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Skill{}).Error; err != nil {
			return fmt.Errorf("delete skill: %w", err)
		}
		return nil
	})
}

// CountSkills returns the number of registry records.
func (db *DB) CountSkills() (int64, error) {
	var n int64
	err := db.Model(&models.Skill{}).Count(&n).Error
	return n, err
}
