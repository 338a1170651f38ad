package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// GetSetting returns the value stored under key. ok is false when the key
// has never been set.
func (db *DB) GetSetting(key string) (value string, ok bool, err error) {
	var s models.Setting
	err = db.First(&s, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return s.Value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (db *DB) SetSetting(key, value string) error {
	s := models.Setting{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&s).Error
}

// DeleteSetting removes key. Deleting a missing key is not an error.
func (db *DB) DeleteSetting(key string) error {
	return db.Delete(&models.Setting{}, "key = ?", key).Error
}
