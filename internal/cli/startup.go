package cli

import (
	"context"
	"time"

	"github.com/starjokerZYJ/skills-hub/internal/config"
	"github.com/starjokerZYJ/skills-hub/internal/log"
)

// stagingMaxAge is how old an abandoned staging directory must be before
// startup removes it.
const stagingMaxAge = 24 * time.Hour

// runStartupMaintenance prunes old cached clones and abandoned staging
// directories. Failures are logged only.
func runStartupMaintenance(ctx context.Context, a *app) {
	logger := log.GetLogger(ctx)

	if days := config.GitCacheCleanupDays(a.cfg, a.db); days > 0 {
		removed, err := a.cache.CleanupOlderThan(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			logger.WithError(err).Warn("git cache cleanup failed")
		} else if removed > 0 {
			logger.WithField("removed", removed).Info("git cache cleanup")
		}
	}

	if removed, err := a.installer.CleanupStaleStaging(ctx, stagingMaxAge); err != nil {
		logger.WithError(err).Warn("staging cleanup failed")
	} else if removed > 0 {
		logger.WithField("removed", removed).Info("removed stale staging directories")
	}
}
