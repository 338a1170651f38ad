package installer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starjokerZYJ/skills-hub/internal/skillmd"
	"github.com/starjokerZYJ/skills-hub/internal/testutil"
)

func TestListLocalSkills(t *testing.T) {
	env := newTestEnv(t)
	base := filepath.Join(env.root, "pack")
	testutil.WriteFiles(t, base, map[string]string{
		"skills/a/SKILL.md":          testutil.SkillMD("alpha", "First"),
		"skills/b/notes.txt":         "no descriptor",
		"skills/.curated/c/SKILL.md": testutil.SkillMD("charlie", "Curated"),
		"skills/d/SKILL.md":          "---\ndescription: nameless\n---\n",
		"skills/README.md":           "not a dir",
	})

	got, err := env.inst.ListLocalSkills(base)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "skills/a", got[0].Subpath)
	assert.True(t, got[0].Valid)
	assert.Equal(t, "First", got[0].Description)

	assert.Equal(t, "b", got[1].Name)
	assert.False(t, got[1].Valid)
	assert.Equal(t, skillmd.ReasonMissingSkillMD, got[1].Reason)

	assert.Equal(t, "charlie", got[2].Name)
	assert.Equal(t, "skills/.curated/c", got[2].Subpath)

	assert.Equal(t, "d", got[3].Name)
	assert.Equal(t, skillmd.ReasonMissingName, got[3].Reason)
}

func TestListLocalSkills_RootDescriptor(t *testing.T) {
	env := newTestEnv(t)
	base := filepath.Join(env.root, "single")
	testutil.WriteFiles(t, base, map[string]string{"SKILL.md": testutil.SkillMD("single", "Only")})

	got, err := env.inst.ListLocalSkills(base)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ".", got[0].Subpath)
	assert.Equal(t, "single", got[0].Name)
}

func TestListLocalSkills_MissingBase(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.inst.ListLocalSkills(filepath.Join(env.root, "absent"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestListGitSkills(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.SetRepo(repoURL, map[string]string{
		"skills/x/SKILL.md":         testutil.SkillMD("xray", "X"),
		"skills/y/notes.txt":        "no descriptor",
		"skills/.system/z/SKILL.md": testutil.SkillMD("zulu", "Z"),
		"skills/w/SKILL.md":         "broken",
	})

	got, err := env.inst.ListGitSkills(context.Background(), "acme/skills")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "w", got[0].Name, "invalid descriptor falls back to the directory name")
	assert.Equal(t, "skills/w", got[0].Subpath)
	assert.False(t, got[0].Valid)
	assert.Equal(t, skillmd.ReasonInvalidFrontmatter, got[0].Reason)

	assert.Equal(t, "xray", got[1].Name)
	assert.Equal(t, "skills/x", got[1].Subpath)
	assert.True(t, got[1].Valid)
	assert.Equal(t, "zulu", got[2].Name)
	assert.Equal(t, "skills/.system/z", got[2].Subpath)
}

func TestListGitSkills_Subpath(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.SetRepo(repoURL+"@main", multiSkillRepo("1.0.0"))

	got, err := env.inst.ListGitSkills(context.Background(), fooURL)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "foo", got[0].Name)
	assert.Equal(t, "skills/foo", got[0].Subpath)

	_, err = env.inst.ListGitSkills(context.Background(), "https://github.com/acme/skills/tree/main/skills/none")
	assert.ErrorIs(t, err, ErrSubpathNotFound)
}
