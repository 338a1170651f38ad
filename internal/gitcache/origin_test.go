package gitcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starjokerZYJ/skills-hub/internal/testutil"
)

func TestDetectOrigin(t *testing.T) {
	dir := t.TempDir()
	rev := testutil.InitGitRepo(t, dir, map[string]string{"SKILL.md": testutil.SkillMD("x", "y")})
	testutil.AddOrigin(t, dir, "https://github.com/o/x.git")

	origin, ok := DetectOrigin(dir)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/o/x.git", origin.URL)
	assert.Equal(t, rev, origin.Revision)
}

func TestDetectOrigin_ThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir, map[string]string{"a.txt": "a"})
	testutil.AddOrigin(t, dir, "https://example.com/x.git")

	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(dir, link))

	origin, ok := DetectOrigin(link)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/x.git", origin.URL)
}

func TestDetectOrigin_NoRemote(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir, map[string]string{"a.txt": "a"})

	_, ok := DetectOrigin(dir)
	assert.False(t, ok)
}

func TestDetectOrigin_NotARepo(t *testing.T) {
	_, ok := DetectOrigin(t.TempDir())
	assert.False(t, ok)

	_, ok = DetectOrigin(filepath.Join(t.TempDir(), "missing"))
	assert.False(t, ok)
}

func TestDetectOrigin_SubdirectoryIsNotARepo(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir, map[string]string{"skills/a/SKILL.md": testutil.SkillMD("a", "b")})
	testutil.AddOrigin(t, dir, "https://github.com/o/x.git")

	_, ok := DetectOrigin(filepath.Join(dir, "skills", "a"))
	assert.False(t, ok)
}
