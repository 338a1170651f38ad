package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starjokerZYJ/skills-hub/internal/models"
	"github.com/starjokerZYJ/skills-hub/internal/syncer"
	"github.com/starjokerZYJ/skills-hub/internal/testutil"
)

func installSample(t *testing.T, env *testEnv, name string) *InstallResult {
	t.Helper()
	src := testutil.WriteSkill(t, filepath.Join(env.root, "src"), name, "Sample")
	res, err := env.inst.InstallLocal(context.Background(), src, "")
	require.NoError(t, err)
	return res
}

func TestSyncToTool_Link(t *testing.T) {
	env := newTestEnv(t)
	env.installTool(t, PlatformClaude)
	res := installSample(t, env, "linked")

	target, err := env.inst.SyncToTool(context.Background(), res.SkillID, "Claude", "")
	require.NoError(t, err)

	assert.Equal(t, "claude", target.Tool)
	assert.Equal(t, filepath.Join(env.home, ".claude", "skills", "linked"), target.TargetPath)
	assert.True(t, syncer.IsSymlink(target.TargetPath))
	dest, err := syncer.LinkTarget(target.TargetPath)
	require.NoError(t, err)
	assert.Equal(t, res.CentralPath, dest)

	record, err := env.db.GetSkillByID(res.SkillID)
	require.NoError(t, err)
	require.NotNil(t, record.LastSyncAt)

	stored, err := env.db.GetSkillTarget(res.SkillID, "claude")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, target.ID, stored.ID)
}

func TestSyncToTool_ResyncKeepsTargetID(t *testing.T) {
	env := newTestEnv(t)
	env.installTool(t, PlatformClaude)
	res := installSample(t, env, "again")
	ctx := context.Background()

	first, err := env.inst.SyncToTool(ctx, res.SkillID, "claude", models.ModeCopy)
	require.NoError(t, err)
	second, err := env.inst.SyncToTool(ctx, res.SkillID, "claude", models.ModeLink)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ModeLink, second.Mode)
	assert.True(t, syncer.IsSymlink(second.TargetPath))
}

func TestSyncToTool_RefusesUnmanagedOccupant(t *testing.T) {
	env := newTestEnv(t)
	env.installTool(t, PlatformClaude)
	res := installSample(t, env, "taken")

	occupant := filepath.Join(env.home, ".claude", "skills", "taken")
	testutil.WriteFiles(t, occupant, map[string]string{"SKILL.md": "user's own"})

	_, err := env.inst.SyncToTool(context.Background(), res.SkillID, "claude", models.ModeCopy)
	assert.ErrorIs(t, err, syncer.ErrTargetExists)
	assert.Equal(t, "user's own", readFile(t, filepath.Join(occupant, "SKILL.md")))
}

func TestSyncToTool_RefusesForeignSymlink(t *testing.T) {
	env := newTestEnv(t)
	env.installTool(t, PlatformClaude)
	res := installSample(t, env, "mine")

	own := filepath.Join(env.root, "own-skill")
	testutil.WriteFiles(t, own, map[string]string{"SKILL.md": "user's own"})
	link := filepath.Join(env.home, ".claude", "skills", "mine")
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0755))
	require.NoError(t, os.Symlink(own, link))

	_, err := env.inst.SyncToTool(context.Background(), res.SkillID, "claude", "")
	assert.ErrorIs(t, err, syncer.ErrTargetExists)

	dest, err := syncer.LinkTarget(link)
	require.NoError(t, err)
	assert.Equal(t, own, dest)
}

func TestSyncToTool_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := installSample(t, env, "lonely")

	_, err := env.inst.SyncToTool(ctx, "nope", "claude", "")
	assert.ErrorIs(t, err, ErrSkillNotFound)

	_, err = env.inst.SyncToTool(ctx, res.SkillID, "notepad", "")
	assert.ErrorIs(t, err, ErrToolNotFound)

	_, err = env.inst.SyncToTool(ctx, res.SkillID, "claude", "")
	assert.ErrorIs(t, err, ErrToolNotInstalled)

	env.installTool(t, PlatformClaude)
	require.NoError(t, os.RemoveAll(res.CentralPath))
	_, err = env.inst.SyncToTool(ctx, res.SkillID, "claude", "")
	assert.ErrorIs(t, err, ErrCentralPathMissing)
}

func TestUnsyncFromTool(t *testing.T) {
	env := newTestEnv(t)
	env.installTool(t, PlatformClaude)
	res := installSample(t, env, "unsync")
	ctx := context.Background()

	target, err := env.inst.SyncToTool(ctx, res.SkillID, "claude", "")
	require.NoError(t, err)

	require.NoError(t, env.inst.UnsyncFromTool(ctx, res.SkillID, "claude"))
	assert.False(t, syncer.Exists(target.TargetPath))
	assert.DirExists(t, res.CentralPath)

	stored, err := env.db.GetSkillTarget(res.SkillID, "claude")
	require.NoError(t, err)
	assert.Nil(t, stored)

	err = env.inst.UnsyncFromTool(ctx, res.SkillID, "claude")
	assert.ErrorIs(t, err, ErrTargetNotFound)

	err = env.inst.UnsyncFromTool(ctx, res.SkillID, "notepad")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestDeleteSkill(t *testing.T) {
	env := newTestEnv(t)
	env.installTool(t, PlatformClaude)
	env.installTool(t, PlatformCursor)
	res := installSample(t, env, "doomed")
	ctx := context.Background()

	link, err := env.inst.SyncToTool(ctx, res.SkillID, "claude", "")
	require.NoError(t, err)
	copied, err := env.inst.SyncToTool(ctx, res.SkillID, "cursor", "")
	require.NoError(t, err)

	require.NoError(t, env.inst.DeleteSkill(ctx, res.SkillID))

	assert.False(t, syncer.Exists(link.TargetPath))
	assert.False(t, syncer.Exists(copied.TargetPath))
	assert.NoDirExists(t, res.CentralPath)

	record, err := env.db.GetSkillByID(res.SkillID)
	require.NoError(t, err)
	assert.Nil(t, record)
	targets, err := env.db.ListSkillTargets(res.SkillID)
	require.NoError(t, err)
	assert.Empty(t, targets)

	assert.ErrorIs(t, env.inst.DeleteSkill(ctx, res.SkillID), ErrSkillNotFound)
}
