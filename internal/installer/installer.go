package installer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/starjokerZYJ/skills-hub/internal/gitcache"
	"github.com/starjokerZYJ/skills-hub/internal/hash"
	"github.com/starjokerZYJ/skills-hub/internal/log"
	"github.com/starjokerZYJ/skills-hub/internal/models"
	"github.com/starjokerZYJ/skills-hub/internal/skillmd"
	"github.com/starjokerZYJ/skills-hub/internal/source"
	"github.com/starjokerZYJ/skills-hub/internal/syncer"
)

// Staging directory prefixes inside the central repository.
const (
	installStagingPrefix = ".skills-hub-install-"
	updateStagingPrefix  = ".skills-hub-update-"
)

// Store is the part of the registry the installer needs.
type Store interface {
	UpsertSkill(skill *models.Skill) error
	GetSkillByID(id string) (*models.Skill, error)
	DeleteSkill(id string) error
	UpsertSkillTarget(target *models.SkillTarget) error
	ListSkillTargets(skillID string) ([]models.SkillTarget, error)
	GetSkillTarget(skillID, tool string) (*models.SkillTarget, error)
	DeleteSkillTarget(skillID, tool string) error
}

// Acquirer hands out a local clone of a repository, fresh enough to read.
type Acquirer interface {
	Acquire(ctx context.Context, cloneURL, branch string) (dir, rev string, err error)
}

// Options configures an Installer.
type Options struct {
	// CentralDir is the canonical root holding one directory per skill.
	CentralDir string
	// Home is the directory tool skill directories are resolved against.
	Home string
	// ComputeHash decides, per operation, whether content hashes are
	// recorded. Nil means never.
	ComputeHash func() bool
	// Platforms overrides the tool registry.
	Platforms []PlatformInfo
	// Now overrides the clock.
	Now func() time.Time
}

// Installer brings skills into the central repository and keeps tool
// targets in sync with it.
type Installer struct {
	store       Store
	repos       Acquirer
	centralDir  string
	home        string
	computeHash func() bool
	platforms   []PlatformInfo
	now         func() time.Time
}

// New creates a new installer.
func New(store Store, repos Acquirer, opts Options) *Installer {
	i := &Installer{
		store:       store,
		repos:       repos,
		centralDir:  opts.CentralDir,
		home:        opts.Home,
		computeHash: opts.ComputeHash,
		platforms:   opts.Platforms,
		now:         opts.Now,
	}
	if i.computeHash == nil {
		i.computeHash = func() bool { return false }
	}
	if i.platforms == nil {
		i.platforms = AllPlatformInfos()
	}
	if i.now == nil {
		i.now = time.Now
	}
	return i
}

// CentralDir returns the canonical root.
func (i *Installer) CentralDir() string {
	return i.centralDir
}

// Platforms returns the tool registry in use.
func (i *Installer) Platforms() []PlatformInfo {
	return i.platforms
}

// InstallResult describes a newly registered skill.
type InstallResult struct {
	SkillID     string
	Name        string
	CentralPath string
	ContentHash string
}

// InstallLocal copies a local skill directory into the central repository
// and registers it. When the directory is the root of a git clone with an
// origin remote, the skill is recorded as a git skill of that remote so
// later updates pull from it.
func (i *Installer) InstallLocal(ctx context.Context, sourcePath, name string) (*InstallResult, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", sourcePath, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourcePath)
	}

	if name == "" {
		name = defaultLocalName(abs)
	}

	sourceType, ref, rev := models.SourceTypeLocal, abs, ""
	if origin, ok := gitcache.DetectOrigin(abs); ok {
		sourceType, ref, rev = models.SourceTypeGit, origin.URL, origin.Revision
		log.GetLogger(ctx).WithField("origin", origin.URL).Debug("local skill is a git clone; recording origin")
	}

	return i.installFromDir(ctx, abs, name, provenance{sourceType: sourceType, ref: ref, revision: rev})
}

// InstallGit installs a skill from a repository reference. A reference
// without a subpath installs the repository root, which is refused when
// the repository holds more than one skill under skills/.
func (i *Installer) InstallGit(ctx context.Context, repoRef, name string) (*InstallResult, error) {
	ref := source.Parse(repoRef)
	return i.installGit(ctx, repoRef, ref, ref.Subpath, "", name)
}

// InstallGitSelection installs the candidate at subpath of a repository,
// as listed by ListGitSkills. A subpath of "." selects the repository
// root.
func (i *Installer) InstallGitSelection(ctx context.Context, repoRef, subpath, name string) (*InstallResult, error) {
	ref := source.Parse(repoRef)
	pinned := strings.Trim(filepath.ToSlash(subpath), "/")
	if pinned == "" {
		pinned = "."
	}
	return i.installGit(ctx, repoRef, ref, selectedSubpath(pinned), pinned, name)
}

// InstallLocalSelection installs the candidate at subpath of a local
// directory, as listed by ListLocalSkills. The candidate must carry a
// valid descriptor; its name is the default skill name.
func (i *Installer) InstallLocalSelection(ctx context.Context, basePath, subpath, name string) (*InstallResult, error) {
	dir := filepath.Join(basePath, filepath.FromSlash(subpath))
	if !syncer.Exists(dir) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, dir)
	}
	desc, err := skillmd.ParseDir(dir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = desc.Name
	}
	return i.InstallLocal(ctx, dir, name)
}

// installGit installs subpath of the repository ref names. pinned is
// recorded for selections; without it, a root install is refused when the
// repository holds several skills.
func (i *Installer) installGit(ctx context.Context, rawRef string, ref source.Reference, subpath, pinned, name string) (*InstallResult, error) {
	subpath = trimDescriptor(subpath)
	if subpath != "" && !filepath.IsLocal(filepath.FromSlash(subpath)) {
		return nil, fmt.Errorf("%w: %s", ErrSubpathNotFound, subpath)
	}

	if name == "" {
		name = defaultGitName(ref, subpath)
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if syncer.Exists(i.centralPath(name)) {
		return nil, fmt.Errorf("%w: %s", ErrSkillExists, name)
	}

	dir, rev, err := i.repos.Acquire(ctx, ref.CloneURL, ref.Branch)
	if err != nil {
		return nil, err
	}

	copySrc := dir
	if subpath != "" {
		copySrc = filepath.Join(dir, filepath.FromSlash(subpath))
		if info, err := os.Stat(copySrc); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrSubpathNotFound, subpath)
		}
	} else if pinned == "" {
		matches, err := doublestar.Glob(os.DirFS(dir), "skills/*/"+skillmd.FileName)
		if err == nil && len(matches) >= 2 {
			return nil, fmt.Errorf("%w: found %d under skills/", ErrMultipleSkills, len(matches))
		}
	}

	return i.installFromDir(ctx, copySrc, name, provenance{
		sourceType: models.SourceTypeGit,
		ref:        rawRef,
		revision:   rev,
		subpath:    pinned,
	})
}

// provenance is where an installed skill came from.
type provenance struct {
	sourceType string
	ref        string
	revision   string
	subpath    string
}

// installFromDir copies src into the central repository under name and
// registers the result. The central directory is removed again when the
// record cannot be written.
func (i *Installer) installFromDir(ctx context.Context, src, name string, from provenance) (*InstallResult, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	central := i.centralPath(name)
	if syncer.Exists(central) {
		return nil, fmt.Errorf("%w: %s", ErrSkillExists, name)
	}
	if err := os.MkdirAll(i.centralDir, 0755); err != nil {
		return nil, fmt.Errorf("create central repository: %w", err)
	}

	staging := filepath.Join(i.centralDir, installStagingPrefix+uuid.NewString())
	if err := syncer.CopyDir(src, staging); err != nil {
		_ = os.RemoveAll(staging)
		return nil, fmt.Errorf("copy skill: %w", err)
	}
	if err := syncer.MoveDir(staging, central); err != nil {
		_ = os.RemoveAll(staging)
		return nil, fmt.Errorf("move skill into place: %w", err)
	}

	now := models.NowMillis(i.now())
	contentHash := i.contentHash(ctx, central)
	record := &models.Skill{
		ID:             uuid.NewString(),
		Name:           name,
		SourceType:     from.sourceType,
		SourceRef:      models.StringPtr(from.ref),
		SourceRevision: models.StringPtr(from.revision),
		SourceSubpath:  models.StringPtr(from.subpath),
		CentralPath:    central,
		ContentHash:    models.StringPtr(contentHash),
		CreatedAt:      now,
		UpdatedAt:      now,
		LastSeenAt:     now,
		Status:         models.StatusOK,
		Metadata:       skillmd.LoadMetadata(central),
	}
	if err := i.store.UpsertSkill(record); err != nil {
		_ = os.RemoveAll(central)
		return nil, fmt.Errorf("register skill: %w", err)
	}

	log.GetLogger(ctx).WithFields(logrus.Fields{
		"skill":  name,
		"source": from.sourceType,
	}).Info("installed skill")

	return &InstallResult{
		SkillID:     record.ID,
		Name:        name,
		CentralPath: central,
		ContentHash: contentHash,
	}, nil
}

func (i *Installer) centralPath(name string) string {
	return filepath.Join(i.centralDir, name)
}

// contentHash fingerprints dir when hashing is enabled. Failures are
// logged and leave the hash empty.
func (i *Installer) contentHash(ctx context.Context, dir string) string {
	if !i.computeHash() {
		return ""
	}
	digest, err := hash.Dir(dir)
	if err != nil {
		log.GetLogger(ctx).WithError(err).Warn("content hash failed")
		return ""
	}
	return digest
}

func (i *Installer) platform(tool string) (PlatformInfo, bool) {
	return FindPlatform(i.platforms, tool)
}

func defaultLocalName(abs string) string {
	base := filepath.Base(abs)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "unnamed-skill"
	}
	return base
}

func defaultGitName(ref source.Reference, subpath string) string {
	if subpath != "" {
		if last := path.Base(subpath); last != "." && last != "/" {
			return last
		}
	}
	if repo := ref.RepoName(); repo != "" {
		return repo
	}
	return "skill"
}

// selectedSubpath maps a pinned subpath to a path below the clone root.
func selectedSubpath(pinned string) string {
	if pinned == "." {
		return ""
	}
	return pinned
}

// trimDescriptor turns a subpath pointing at a SKILL.md file into its
// directory.
func trimDescriptor(subpath string) string {
	subpath = strings.Trim(subpath, "/")
	if strings.EqualFold(path.Base(subpath), skillmd.FileName) {
		subpath = path.Dir(subpath)
		if subpath == "." {
			subpath = ""
		}
	}
	return subpath
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
