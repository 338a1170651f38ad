package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/starjokerZYJ/skills-hub/internal/config"
	"github.com/starjokerZYJ/skills-hub/internal/db"
	"github.com/starjokerZYJ/skills-hub/internal/gitcache"
	"github.com/starjokerZYJ/skills-hub/internal/installer"
	"github.com/starjokerZYJ/skills-hub/internal/log"
	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// app bundles what a command needs. Commands open one per run.
type app struct {
	cfg       *config.Config
	paths     config.Paths
	db        *db.DB
	cache     *gitcache.Cache
	installer *installer.Installer
	home      string
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	paths := config.GetPaths(cfg)

	if err := log.Init(paths.Logs); err != nil {
		return nil, err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("ignoring log level %q: %v", cfg.LogLevel, err)
	}

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		_ = database.Close()
		_ = log.Close()
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	a := &app{cfg: cfg, paths: paths, db: database, home: home}
	a.cache = gitcache.New(paths.GitCache, gitcache.NewGitFetcher(cfg.GitHubToken),
		gitcache.WithTTLSeconds(func() int64 { return config.GitCacheTTLSecs(cfg, database) }))
	a.installer = installer.New(database, a.cache, installer.Options{
		CentralDir:  config.CentralRepoPath(cfg, database),
		Home:        home,
		ComputeHash: cfg.ComputeContentHash,
	})

	runStartupMaintenance(ctx, a)
	return a, nil
}

func (a *app) Close() {
	_ = a.db.Close()
	_ = log.Close()
}

func (a *app) nowMillis() int64 {
	return models.NowMillis(time.Now())
}

// resolveSkill finds a skill by ID, then by name.
func (a *app) resolveSkill(arg string) (*models.Skill, error) {
	skill, err := a.db.GetSkillByID(arg)
	if err != nil {
		return nil, fmt.Errorf("load skill: %w", err)
	}
	if skill != nil {
		return skill, nil
	}
	skill, err = a.db.GetSkillByName(arg)
	if err != nil {
		return nil, fmt.Errorf("load skill: %w", err)
	}
	if skill == nil {
		return nil, fmt.Errorf("%w: %s", installer.ErrSkillNotFound, arg)
	}
	return skill, nil
}
