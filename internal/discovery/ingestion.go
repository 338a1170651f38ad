package discovery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/starjokerZYJ/skills-hub/internal/installer"
	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// TargetStore records targets for imported skills.
type TargetStore interface {
	UpsertSkillTarget(target *models.SkillTarget) error
}

// IngestionService brings discovered skills under hub management.
type IngestionService struct {
	installer *installer.Installer
	targets   TargetStore
	now       func() int64
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(inst *installer.Installer, targets TargetStore, now func() int64) *IngestionService {
	return &IngestionService{installer: inst, targets: targets, now: now}
}

// ImportExisting installs the variant as a local skill named name and
// registers the variant's location as a copy target of its tool, so later
// updates refresh it in place. When the target cannot be registered the
// install is rolled back and the variant is left as it was.
func (s *IngestionService) ImportExisting(ctx context.Context, variant Variant, name string) (*installer.InstallResult, error) {
	if name == "" {
		name = variant.Name
	}
	res, err := s.installer.InstallLocal(ctx, variant.Path, name)
	if err != nil {
		return nil, err
	}

	syncedAt := s.now()
	target := &models.SkillTarget{
		ID:         uuid.NewString(),
		SkillID:    res.SkillID,
		Tool:       variant.Tool,
		TargetPath: variant.Path,
		Mode:       models.ModeCopy,
		Status:     models.StatusOK,
		SyncedAt:   &syncedAt,
	}
	if err := s.targets.UpsertSkillTarget(target); err != nil {
		err = fmt.Errorf("register %s target: %w", variant.Tool, err)
		// Roll back the install.
		if rerr := s.installer.DeleteSkill(ctx, res.SkillID); rerr != nil {
			return nil, multierror.Append(err, fmt.Errorf("roll back import: %w", rerr))
		}
		return nil, err
	}
	return res, nil
}

// FindVariant looks up the variant of name held by tool in plan.
func FindVariant(plan *Plan, tool, name string) (Variant, bool) {
	for _, g := range plan.Groups {
		if g.Name != name {
			continue
		}
		for _, v := range g.Variants {
			if v.Tool == tool {
				return v, true
			}
		}
	}
	return Variant{}, false
}
