package syncer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// ErrTargetExists is returned when a target path is occupied and
// overwriting was not requested.
var ErrTargetExists = errors.New("target already exists")

// Result describes a completed sync.
type Result struct {
	TargetPath string
	Mode       string
}

// SyncCopy makes target a full, independent copy of src. An existing
// target is replaced only when overwrite is set; the new copy is built
// beside the target first so a failed copy leaves the old target intact.
func SyncCopy(src, target string, overwrite bool) (Result, error) {
	if Exists(target) && !overwrite {
		return Result{}, fmt.Errorf("%w: %s", ErrTargetExists, target)
	}

	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return Result{}, fmt.Errorf("create %s: %w", parent, err)
	}

	staging := filepath.Join(parent, ".skills-hub-sync-"+uuid.NewString())
	if err := CopyDir(src, staging); err != nil {
		_ = os.RemoveAll(staging)
		return Result{}, fmt.Errorf("copy to staging: %w", err)
	}

	if err := ReplaceDir(staging, target); err != nil {
		_ = os.RemoveAll(staging)
		return Result{}, err
	}

	return Result{TargetPath: target, Mode: models.ModeCopy}, nil
}

// SyncLink points target at src with a symlink. A symlink already pointing
// at src is replaced in place; any other existing entry, including a
// foreign symlink, only when overwrite is set.
func SyncLink(src, target string, overwrite bool) (Result, error) {
	if Exists(target) {
		if !overwrite && !linksTo(target, src) {
			return Result{}, fmt.Errorf("%w: %s", ErrTargetExists, target)
		}
		if err := RemovePath(target); err != nil {
			return Result{}, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Result{}, fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}
	if err := os.Symlink(src, target); err != nil {
		return Result{}, fmt.Errorf("create symlink: %w", err)
	}
	return Result{TargetPath: target, Mode: models.ModeLink}, nil
}

// linksTo reports whether path is a symlink resolving to dir.
func linksTo(path, dir string) bool {
	got, err := LinkTarget(path)
	if err != nil {
		return false
	}
	return got == filepath.Clean(dir)
}

// Sync links target to src when preferLink is set, falling back to a copy
// when the link cannot be created. Otherwise it copies.
func Sync(src, target string, overwrite, preferLink bool) (Result, error) {
	if preferLink {
		res, err := SyncLink(src, target, overwrite)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrTargetExists) {
			return Result{}, err
		}
	}
	return SyncCopy(src, target, overwrite)
}
