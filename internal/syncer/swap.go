package syncer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/starjokerZYJ/skills-hub/internal/log"
)

// renameDir is swapped in tests to simulate cross-device renames.
var renameDir = os.Rename

// moveStep is one way of moving a fully built staging directory to dest.
type moveStep struct {
	name string
	run  func(staging, dest string) error
}

var moveSteps = []moveStep{
	{name: "rename", run: func(staging, dest string) error { return renameDir(staging, dest) }},
	{name: "copy", run: copyThenRemove},
}

func copyThenRemove(staging, dest string) error {
	if err := CopyDir(staging, dest); err != nil {
		_ = os.RemoveAll(dest)
		return err
	}
	if err := os.RemoveAll(staging); err != nil {
		log.WithError(err).WithField("staging", staging).Warn("remove staging directory")
	}
	return nil
}

// BackupPrefix names the directory a replaced entry is set aside under
// while its replacement moves in. One survives only when restoring the
// previous content failed.
const BackupPrefix = ".skills-hub-backup-"

// ReplaceDir replaces dest with the fully built staging directory. The old
// dest is renamed aside first and restored if the move fails, so a failed
// replace leaves dest as it was and staging untouched.
func ReplaceDir(staging, dest string) error {
	if !Exists(dest) {
		return MoveDir(staging, dest)
	}

	backup := filepath.Join(filepath.Dir(dest),
		BackupPrefix+filepath.Base(dest)+"-"+strconv.FormatInt(time.Now().UnixNano(), 36))
	if err := os.Rename(dest, backup); err != nil {
		return fmt.Errorf("set aside %s: %w", dest, err)
	}

	if err := MoveDir(staging, dest); err != nil {
		if rerr := restore(backup, dest); rerr != nil {
			log.WithError(rerr).WithFields(map[string]interface{}{
				"dest":   dest,
				"backup": backup,
			}).Error("restore previous content failed")
			return fmt.Errorf("%w (previous content kept at %s)", err, backup)
		}
		return err
	}

	if err := RemovePath(backup); err != nil {
		log.WithError(err).WithField("backup", backup).Warn("remove replaced directory")
	}
	return nil
}

func restore(backup, dest string) error {
	if err := RemovePath(dest); err != nil {
		return err
	}
	return os.Rename(backup, dest)
}

// MoveDir moves staging to dest, which must not exist.
func MoveDir(staging, dest string) error {
	var lastErr error
	for i, step := range moveSteps {
		err := step.run(staging, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < len(moveSteps)-1 {
			log.WithError(err).WithFields(map[string]interface{}{
				"staging": staging,
				"dest":    dest,
				"step":    step.name,
			}).Warn("move failed, falling back")
		}
	}
	return fmt.Errorf("move %s to %s: %w", staging, dest, lastErr)
}
