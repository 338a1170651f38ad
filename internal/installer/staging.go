package installer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starjokerZYJ/skills-hub/internal/log"
)

// CleanupStaleStaging removes install and update staging directories left
// in the central repository by interrupted runs, once they are older than
// maxAge. It returns how many were removed.
func (i *Installer) CleanupStaleStaging(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(i.centralDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := i.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, installStagingPrefix) && !strings.HasPrefix(name, updateStagingPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(i.centralDir, name)); err != nil {
			log.GetLogger(ctx).WithError(err).WithField("dir", name).Warn("failed to remove staging directory")
			continue
		}
		removed++
	}
	return removed, nil
}
