package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/starjokerZYJ/skills-hub/internal/log"
	"github.com/starjokerZYJ/skills-hub/internal/models"
	"github.com/starjokerZYJ/skills-hub/internal/syncer"
)

// SyncToTool places a managed skill into a tool's skills directory, as a
// link when mode allows it and the tool follows links, otherwise as a copy.
// An existing target recorded for the same skill and tool is replaced; any
// other occupant of the path is left alone.
func (i *Installer) SyncToTool(ctx context.Context, skillID, tool, mode string) (*models.SkillTarget, error) {
	record, err := i.requireSkill(skillID)
	if err != nil {
		return nil, err
	}
	info, ok := i.platform(tool)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	if !info.IsInstalled(i.home) {
		return nil, fmt.Errorf("%w: %s", ErrToolNotInstalled, info.Name)
	}
	if !syncer.Exists(record.CentralPath) {
		return nil, fmt.Errorf("%w: %s", ErrCentralPathMissing, record.CentralPath)
	}

	targetPath := info.SkillPath(i.home, filepath.Base(record.CentralPath))
	existing, err := i.store.GetSkillTarget(record.ID, string(info.ID))
	if err != nil {
		return nil, fmt.Errorf("load target: %w", err)
	}
	overwrite := existing != nil && existing.TargetPath == targetPath

	preferLink := mode != models.ModeCopy && info.SupportsLinks
	res, err := syncer.Sync(record.CentralPath, targetPath, overwrite, preferLink)
	if err != nil {
		return nil, err
	}

	now := models.NowMillis(i.now())
	target := &models.SkillTarget{
		ID:         uuid.NewString(),
		SkillID:    record.ID,
		Tool:       string(info.ID),
		TargetPath: res.TargetPath,
		Mode:       res.Mode,
		Status:     models.StatusOK,
		SyncedAt:   &now,
	}
	if existing != nil {
		target.ID = existing.ID
	}
	if err := i.store.UpsertSkillTarget(target); err != nil {
		return nil, fmt.Errorf("save target: %w", err)
	}

	record.LastSyncAt = &now
	if err := i.store.UpsertSkill(record); err != nil {
		return nil, fmt.Errorf("save skill: %w", err)
	}

	log.GetLogger(ctx).WithFields(logrus.Fields{
		"skill": record.Name,
		"tool":  target.Tool,
		"mode":  target.Mode,
	}).Info("synced skill")
	return target, nil
}

// UnsyncFromTool removes a skill's target for one tool. The central copy is
// untouched.
func (i *Installer) UnsyncFromTool(ctx context.Context, skillID, tool string) error {
	record, err := i.requireSkill(skillID)
	if err != nil {
		return err
	}
	key := string(PlatformFromString(tool))
	if info, ok := i.platform(tool); ok {
		key = string(info.ID)
	}
	if key == "" {
		return fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}

	target, err := i.store.GetSkillTarget(record.ID, key)
	if err != nil {
		return fmt.Errorf("load target: %w", err)
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrTargetNotFound, key)
	}

	if err := syncer.RemovePath(target.TargetPath); err != nil {
		return fmt.Errorf("remove %s: %w", target.TargetPath, err)
	}
	if err := i.store.DeleteSkillTarget(record.ID, key); err != nil {
		return fmt.Errorf("delete target: %w", err)
	}

	log.GetLogger(ctx).WithFields(logrus.Fields{
		"skill": record.Name,
		"tool":  key,
	}).Info("unsynced skill")
	return nil
}

// DeleteSkill removes every target, the central directory and the record.
// Target removal failures are reported after the rest has been removed.
func (i *Installer) DeleteSkill(ctx context.Context, skillID string) error {
	record, err := i.requireSkill(skillID)
	if err != nil {
		return err
	}

	targets, err := i.store.ListSkillTargets(record.ID)
	if err != nil {
		return fmt.Errorf("list targets: %w", err)
	}

	var errs *multierror.Error
	for _, target := range targets {
		if err := syncer.RemovePath(target.TargetPath); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", target.Tool, err))
		}
	}

	if err := os.RemoveAll(record.CentralPath); err != nil {
		return fmt.Errorf("remove %s: %w", record.CentralPath, err)
	}
	if err := i.store.DeleteSkill(record.ID); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}

	log.GetLogger(ctx).WithField("skill", record.Name).Info("removed skill")
	return errs.ErrorOrNil()
}

func (i *Installer) requireSkill(skillID string) (*models.Skill, error) {
	record, err := i.store.GetSkillByID(skillID)
	if err != nil {
		return nil, fmt.Errorf("load skill: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, skillID)
	}
	return record, nil
}

// IsNotFound reports whether err means the requested skill, target or
// source does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSkillNotFound) ||
		errors.Is(err, ErrTargetNotFound) ||
		errors.Is(err, ErrSourceNotFound) ||
		errors.Is(err, ErrSubpathNotFound)
}
