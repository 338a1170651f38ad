package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/starjokerZYJ/skills-hub/internal/log"
	"github.com/starjokerZYJ/skills-hub/internal/models"
	"github.com/starjokerZYJ/skills-hub/internal/skillmd"
	"github.com/starjokerZYJ/skills-hub/internal/source"
	"github.com/starjokerZYJ/skills-hub/internal/syncer"
)

// replaceDir is swapped in tests to simulate failed swaps.
var replaceDir = syncer.ReplaceDir

// UpdateResult describes a refreshed skill.
type UpdateResult struct {
	SkillID        string
	Name           string
	CentralPath    string
	ContentHash    string
	SourceRevision string

	// UpdatedTargets lists the tools whose copies were refreshed.
	UpdatedTargets []string
	// TargetErrors aggregates per-tool copy failures. The skill itself is
	// updated even when it is non-nil.
	TargetErrors error

	PreviousVersion string
	Version         string
}

// VersionChange describes the metadata version transition, if any.
func (r *UpdateResult) VersionChange() string {
	return skillmd.DescribeVersionChange(r.PreviousVersion, r.Version)
}

// Update refreshes a managed skill from its recorded source, swaps the new
// content into the central repository and refreshes every copy-mode
// target. Link targets follow the central directory automatically.
func (i *Installer) Update(ctx context.Context, skillID string) (*UpdateResult, error) {
	record, err := i.store.GetSkillByID(skillID)
	if err != nil {
		return nil, fmt.Errorf("load skill: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, skillID)
	}

	central := record.CentralPath
	if !syncer.Exists(central) {
		return nil, fmt.Errorf("%w: %s", ErrCentralPathMissing, central)
	}

	var (
		copySrc  string
		revision = models.Deref(record.SourceRevision)
	)
	switch record.SourceType {
	case models.SourceTypeGit:
		copySrc, revision, err = i.fetchSource(ctx, record)
		if err != nil {
			return nil, err
		}
	case models.SourceTypeLocal:
		copySrc = models.Deref(record.SourceRef)
		if copySrc == "" || !syncer.Exists(copySrc) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, copySrc)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, record.SourceType)
	}

	staging := filepath.Join(filepath.Dir(central), updateStagingPrefix+uuid.NewString())
	if err := syncer.CopyDir(copySrc, staging); err != nil {
		_ = os.RemoveAll(staging)
		return nil, fmt.Errorf("copy skill: %w", err)
	}
	if err := replaceDir(staging, central); err != nil {
		return nil, i.recoverSwap(ctx, record, staging, err)
	}

	previousVersion := record.Version()
	now := models.NowMillis(i.now())
	contentHash := i.contentHash(ctx, central)

	record.SourceRevision = models.StringPtr(revision)
	record.ContentHash = models.StringPtr(contentHash)
	record.Metadata = skillmd.LoadMetadata(central)
	record.UpdatedAt = now
	record.Status = models.StatusOK
	if err := i.store.UpsertSkill(record); err != nil {
		return nil, fmt.Errorf("save skill: %w", err)
	}

	result := &UpdateResult{
		SkillID:         record.ID,
		Name:            record.Name,
		CentralPath:     central,
		ContentHash:     contentHash,
		SourceRevision:  revision,
		PreviousVersion: previousVersion,
		Version:         record.Version(),
	}
	result.UpdatedTargets, result.TargetErrors = i.refreshCopies(ctx, record)

	log.GetLogger(ctx).WithFields(logrus.Fields{
		"skill":   record.Name,
		"targets": len(result.UpdatedTargets),
	}).Info("updated skill")

	return result, nil
}

// recoverSwap handles a failed swap of staging onto the central
// directory. Staging is discarded only while the central directory still
// holds content; otherwise staging is moved into its place, or kept where
// it is, and the record is marked as errored.
func (i *Installer) recoverSwap(ctx context.Context, record *models.Skill, staging string, swapErr error) error {
	logger := log.GetLogger(ctx).WithFields(logrus.Fields{
		"skill":   record.Name,
		"staging": staging,
	})
	central := record.CentralPath

	if syncer.Exists(central) {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("swap skill into place: %w", swapErr)
	}

	if err := os.Rename(staging, central); err != nil {
		logger.WithError(err).Error("central directory lost; new content kept in staging")
		swapErr = fmt.Errorf("%w (new content kept at %s)", swapErr, staging)
	} else {
		logger.Warn("swap failed; moved staged content into place")
	}

	record.Status = models.StatusError
	record.UpdatedAt = models.NowMillis(i.now())
	if err := i.store.UpsertSkill(record); err != nil {
		logger.WithError(err).Warn("failed to mark skill as errored")
	}
	return fmt.Errorf("swap skill into place: %w", swapErr)
}

// fetchSource acquires the recorded repository and returns the directory
// to copy from.
func (i *Installer) fetchSource(ctx context.Context, record *models.Skill) (dir, rev string, err error) {
	rawRef := models.Deref(record.SourceRef)
	if rawRef == "" {
		return "", "", fmt.Errorf("%w: skill %s has no source reference", ErrSourceNotFound, record.Name)
	}
	ref := source.Parse(rawRef)
	subpath := ref.Subpath
	if record.SourceSubpath != nil {
		subpath = selectedSubpath(*record.SourceSubpath)
	}
	subpath = trimDescriptor(subpath)

	root, rev, err := i.repos.Acquire(ctx, ref.CloneURL, ref.Branch)
	if err != nil {
		return "", "", err
	}
	if subpath == "" {
		return root, rev, nil
	}

	dir = filepath.Join(root, filepath.FromSlash(subpath))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", "", fmt.Errorf("%w: %s", ErrSubpathNotFound, subpath)
	}
	return dir, rev, nil
}

// refreshCopies re-copies the central directory to every target that holds
// a copy. Targets of tools that are no longer installed are skipped.
func (i *Installer) refreshCopies(ctx context.Context, record *models.Skill) ([]string, error) {
	targets, err := i.store.ListSkillTargets(record.ID)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	var (
		updated []string
		errs    *multierror.Error
	)
	for _, target := range targets {
		info, known := i.platform(target.Tool)
		if known && !info.IsInstalled(i.home) {
			log.GetLogger(ctx).WithField("tool", target.Tool).Debug("tool not installed; skipping target")
			continue
		}
		if !target.IsCopy() && (!known || info.SupportsLinks) {
			continue
		}

		syncedAt := models.NowMillis(i.now())
		target.SyncedAt = &syncedAt
		if _, err := syncer.SyncCopy(record.CentralPath, target.TargetPath, true); err != nil {
			target.Status = models.StatusError
			target.LastError = models.StringPtr(err.Error())
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", target.Tool, err))
		} else {
			target.Mode = models.ModeCopy
			target.Status = models.StatusOK
			target.LastError = nil
			updated = append(updated, target.Tool)
		}

		if err := i.store.UpsertSkillTarget(&target); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: save target: %w", target.Tool, err))
		}
	}

	return updated, errs.ErrorOrNil()
}
