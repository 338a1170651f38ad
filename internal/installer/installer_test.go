package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starjokerZYJ/skills-hub/internal/db"
	"github.com/starjokerZYJ/skills-hub/internal/gitcache"
	"github.com/starjokerZYJ/skills-hub/internal/models"
	"github.com/starjokerZYJ/skills-hub/internal/source"
	"github.com/starjokerZYJ/skills-hub/internal/syncer"
	"github.com/starjokerZYJ/skills-hub/internal/testutil"
)

const repoURL = "https://github.com/acme/skills.git"

type testEnv struct {
	inst    *Installer
	db      *db.DB
	fetcher *testutil.FakeFetcher
	root    string
	home    string
	central string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	database, err := db.New(db.Config{
		Path:        filepath.Join(root, "test.db"),
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	fetcher := testutil.NewFakeFetcher()
	cache := gitcache.New(filepath.Join(root, "cache"), fetcher,
		gitcache.WithTTLSeconds(func() int64 { return 0 }))

	env := &testEnv{
		db:      database,
		fetcher: fetcher,
		root:    root,
		home:    filepath.Join(root, "home"),
		central: filepath.Join(root, "central"),
	}
	env.inst = New(database, cache, Options{
		CentralDir:  env.central,
		Home:        env.home,
		ComputeHash: func() bool { return true },
	})
	return env
}

// installTool makes a tool look installed under the test home.
func (e *testEnv) installTool(t *testing.T, p Platform) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(e.home, filepath.FromSlash(p.Info().DetectDir)), 0755))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func multiSkillRepo(version string) map[string]string {
	return map[string]string{
		"README.md":              "# skills",
		"skills/foo/SKILL.md":    testutil.SkillMD("foo", "Foo skill"),
		"skills/foo/skill.yaml":  "name: foo\nversion: " + version + "\n",
		"skills/foo/notes.txt":   "v" + version,
		"skills/bar/SKILL.md":    testutil.SkillMD("bar", "Bar skill"),
		"skills/bar/scripts/run": "#!/bin/sh\n",
	}
}

func TestInstallLocal(t *testing.T) {
	env := newTestEnv(t)
	src := testutil.WriteSkill(t, filepath.Join(env.root, "src"), "my-skill", "Mine")
	testutil.WriteFiles(t, src, map[string]string{".hidden": "h"})

	res, err := env.inst.InstallLocal(context.Background(), src, "")
	require.NoError(t, err)

	assert.Equal(t, "my-skill", res.Name)
	assert.Equal(t, filepath.Join(env.central, "my-skill"), res.CentralPath)
	assert.NotEmpty(t, res.ContentHash)
	assert.Equal(t, "h", readFile(t, filepath.Join(res.CentralPath, ".hidden")))

	record, err := env.db.GetSkillByID(res.SkillID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, models.SourceTypeLocal, record.SourceType)
	assert.Equal(t, src, models.Deref(record.SourceRef))
	assert.Nil(t, record.SourceRevision)
	assert.Equal(t, res.ContentHash, models.Deref(record.ContentHash))
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)
	assert.Equal(t, models.StatusOK, record.Status)
}

func TestInstallLocal_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inst.InstallLocal(ctx, filepath.Join(env.root, "missing"), "")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	src := testutil.WriteSkill(t, filepath.Join(env.root, "src"), "dup", "Dup")
	first, err := env.inst.InstallLocal(ctx, src, "")
	require.NoError(t, err)
	testutil.WriteFiles(t, first.CentralPath, map[string]string{"marker.txt": "mine"})
	testutil.WriteFiles(t, src, map[string]string{"SKILL.md": testutil.SkillMD("dup", "Changed")})

	_, err = env.inst.InstallLocal(ctx, src, "")
	assert.ErrorIs(t, err, ErrSkillExists)
	assert.Equal(t, "mine", readFile(t, filepath.Join(first.CentralPath, "marker.txt")))
	assert.Equal(t, testutil.SkillMD("dup", "Dup"), readFile(t, filepath.Join(first.CentralPath, "SKILL.md")))

	_, err = env.inst.InstallLocal(ctx, src, "../escape")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestInstallLocal_HashDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.inst.computeHash = func() bool { return false }
	src := testutil.WriteSkill(t, filepath.Join(env.root, "src"), "plain", "Plain")

	res, err := env.inst.InstallLocal(context.Background(), src, "")
	require.NoError(t, err)
	assert.Empty(t, res.ContentHash)

	record, err := env.db.GetSkillByID(res.SkillID)
	require.NoError(t, err)
	assert.Nil(t, record.ContentHash)
}

func TestInstallLocal_GitCloneRecordsOrigin(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.root, "clone")
	rev := testutil.InitGitRepo(t, src, map[string]string{"SKILL.md": testutil.SkillMD("clone", "Cloned")})
	testutil.AddOrigin(t, src, "https://github.com/acme/clone.git")

	res, err := env.inst.InstallLocal(context.Background(), src, "")
	require.NoError(t, err)

	record, err := env.db.GetSkillByID(res.SkillID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTypeGit, record.SourceType)
	assert.Equal(t, "https://github.com/acme/clone.git", models.Deref(record.SourceRef))
	assert.Equal(t, rev, models.Deref(record.SourceRevision))
	assert.NoDirExists(t, filepath.Join(res.CentralPath, ".git"))
}

type failingStore struct {
	*db.DB
}

func (failingStore) UpsertSkill(*models.Skill) error {
	return errors.New("disk full")
}

func TestInstallLocal_RollsBackOnRegistryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.inst.store = failingStore{env.db}
	src := testutil.WriteSkill(t, filepath.Join(env.root, "src"), "doomed", "Doomed")

	_, err := env.inst.InstallLocal(context.Background(), src, "")
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(env.central, "doomed"))
}

func TestInstallGit_Subpath(t *testing.T) {
	env := newTestEnv(t)
	files := multiSkillRepo("1.0.0")
	env.fetcher.SetRepo(repoURL+"@main", files)

	res, err := env.inst.InstallGit(context.Background(), "https://github.com/acme/skills/tree/main/skills/foo", "")
	require.NoError(t, err)

	assert.Equal(t, "foo", res.Name)
	assert.FileExists(t, filepath.Join(res.CentralPath, "SKILL.md"))
	assert.NoFileExists(t, filepath.Join(res.CentralPath, "README.md"))
	assert.Equal(t, []string{"main"}, env.fetcher.Branches())

	record, err := env.db.GetSkillByID(res.SkillID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTypeGit, record.SourceType)
	assert.Equal(t, testutil.Revision(files), models.Deref(record.SourceRevision))
	require.NotNil(t, record.Metadata)
	assert.Equal(t, "1.0.0", record.Version())
}

func TestInstallGit_BlobURLInstallsContainingDir(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.SetRepo(repoURL+"@main", multiSkillRepo("1.0.0"))

	res, err := env.inst.InstallGit(context.Background(), "https://github.com/acme/skills/blob/main/skills/bar/SKILL.md", "")
	require.NoError(t, err)
	assert.Equal(t, "bar", res.Name)
	assert.FileExists(t, filepath.Join(res.CentralPath, "scripts", "run"))
}

func TestInstallGit_RootWithMultipleSkills(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.SetRepo(repoURL, multiSkillRepo("1.0.0"))

	_, err := env.inst.InstallGit(context.Background(), "acme/skills", "")
	assert.ErrorIs(t, err, ErrMultipleSkills)
	assert.NoDirExists(t, filepath.Join(env.central, "skills"))
}

func TestInstallGit_RootSingleSkill(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.SetRepo("https://github.com/acme/solo.git", map[string]string{
		"SKILL.md": testutil.SkillMD("solo", "Solo"),
	})

	res, err := env.inst.InstallGit(context.Background(), "acme/solo", "")
	require.NoError(t, err)
	assert.Equal(t, "solo", res.Name)
	assert.FileExists(t, filepath.Join(res.CentralPath, "SKILL.md"))
	assert.NoDirExists(t, filepath.Join(res.CentralPath, ".git"))
	assert.Equal(t, []string{""}, env.fetcher.Branches())
}

func TestInstallGit_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.fetcher.SetRepo(repoURL+"@main", multiSkillRepo("1.0.0"))

	_, err := env.inst.InstallGit(ctx, "https://github.com/acme/skills/tree/main/skills/nope", "")
	assert.ErrorIs(t, err, ErrSubpathNotFound)

	_, err = env.inst.InstallGit(ctx, "https://github.com/acme/skills/tree/main/skills/foo", "")
	require.NoError(t, err)
	calls := env.fetcher.Calls()

	_, err = env.inst.InstallGit(ctx, "https://github.com/acme/skills/tree/main/skills/foo", "")
	assert.ErrorIs(t, err, ErrSkillExists)
	assert.Equal(t, calls, env.fetcher.Calls(), "name clash is detected before fetching")

	env.fetcher.FailNext = 2
	_, err = env.inst.InstallGit(ctx, "https://github.com/acme/skills/tree/main/skills/bar", "")
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(env.central, "bar"))
}

func TestInstallGitSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.fetcher.SetRepo(repoURL, multiSkillRepo("1.0.0"))

	res, err := env.inst.InstallGitSelection(ctx, "acme/skills", "skills/bar", "")
	require.NoError(t, err)
	assert.Equal(t, "bar", res.Name)

	record, err := env.db.GetSkillByID(res.SkillID)
	require.NoError(t, err)
	assert.Equal(t, "acme/skills", models.Deref(record.SourceRef))
	assert.Equal(t, "skills/bar", models.Deref(record.SourceSubpath))

	root, err := env.inst.InstallGitSelection(ctx, "acme/skills", ".", "everything")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root.CentralPath, "README.md"))
}

func TestInstallLocalSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := filepath.Join(env.root, "pack")
	testutil.WriteFiles(t, base, map[string]string{
		"skills/good/SKILL.md": testutil.SkillMD("good-skill", "Good"),
		"skills/bad/SKILL.md":  "no frontmatter",
	})

	res, err := env.inst.InstallLocalSelection(ctx, base, "skills/good", "")
	require.NoError(t, err)
	assert.Equal(t, "good-skill", res.Name)

	_, err = env.inst.InstallLocalSelection(ctx, base, "skills/bad", "")
	require.Error(t, err)

	_, err = env.inst.InstallLocalSelection(ctx, base, "skills/none", "")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestDefaultGitName(t *testing.T) {
	cases := []struct {
		subpath string
		url     string
		want    string
	}{
		{"skills/foo", repoURL, "foo"},
		{"", repoURL, "skills"},
		{"", "", "skill"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, defaultGitName(source.Reference{CloneURL: tc.url}, tc.subpath))
	}
}

func TestCleanupStaleStaging(t *testing.T) {
	env := newTestEnv(t)
	old := filepath.Join(env.central, updateStagingPrefix+"old")
	fresh := filepath.Join(env.central, installStagingPrefix+"fresh")
	keep := filepath.Join(env.central, "real-skill")
	for _, dir := range []string{old, fresh, keep} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(keep, past, past))

	removed, err := env.inst.CleanupStaleStaging(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoDirExists(t, old)
	assert.DirExists(t, fresh)
	assert.DirExists(t, keep)
}

func TestCleanupStaleStaging_NoCentralDir(t *testing.T) {
	env := newTestEnv(t)
	removed, err := env.inst.CleanupStaleStaging(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestPlatformRegistry(t *testing.T) {
	for _, p := range AllPlatforms() {
		info := p.Info()
		assert.Equal(t, p, info.ID)
		assert.NotEmpty(t, info.Name, p)
		assert.NotEmpty(t, info.SkillsDir, p)
	}
	assert.False(t, PlatformCursor.Info().SupportsLinks)
	assert.True(t, PlatformClaude.Info().SupportsLinks)
	assert.Equal(t, PlatformClaude, PlatformFromString(" Claude "))
	assert.Equal(t, Platform(""), PlatformFromString("emacs"))

	home := t.TempDir()
	info := PlatformClaude.Info()
	assert.False(t, info.IsInstalled(home))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0755))
	assert.True(t, info.IsInstalled(home))
	assert.Equal(t, filepath.Join(home, ".claude", "skills", "x"), info.SkillPath(home, "x"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrSkillNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("claude: %w", ErrTargetNotFound)))
	assert.False(t, IsNotFound(ErrSkillExists))
	assert.False(t, IsNotFound(syncer.ErrTargetExists))
}
