package gitcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starjokerZYJ/skills-hub/internal/testutil"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("https://github.com/o/r.git"))
	assert.True(t, isRemote("git@github.com:o/r.git"))
	assert.False(t, isRemote("/tmp/repo"))
	assert.False(t, isRemote("file:///tmp/repo"))
}

func TestGitFetcher_Auth(t *testing.T) {
	assert.Nil(t, NewGitFetcher("").auth("https://github.com/o/r.git"))
	assert.Nil(t, NewGitFetcher("tok").auth("https://gitlab.com/o/r.git"))

	a := NewGitFetcher("tok").auth("https://github.com/o/r.git")
	require.NotNil(t, a)
	assert.Equal(t, "oauth2", a.Username)
	assert.Equal(t, "tok", a.Password)
}

func TestGitFetcher_CloneThenPull(t *testing.T) {
	testutil.SkipGitTransportTests(t)

	upstream := t.TempDir()
	first := testutil.InitGitRepo(t, upstream, map[string]string{"SKILL.md": testutil.SkillMD("r", "v1")})

	f := NewGitFetcher("")
	dir := filepath.Join(t.TempDir(), "clone")
	ctx := context.Background()

	rev, err := f.CloneOrPull(ctx, upstream, dir, "")
	require.NoError(t, err)
	assert.Equal(t, first, rev)
	assert.FileExists(t, filepath.Join(dir, "SKILL.md"))

	second := testutil.CommitFiles(t, upstream, map[string]string{"extra.txt": "x"})
	rev, err = f.CloneOrPull(ctx, upstream, dir, "")
	require.NoError(t, err)
	assert.Equal(t, second, rev)
	assert.FileExists(t, filepath.Join(dir, "extra.txt"))
}

func TestGitFetcher_CloneMissingRepo(t *testing.T) {
	testutil.SkipGitTransportTests(t)

	dir := filepath.Join(t.TempDir(), "clone")
	_, err := NewGitFetcher("").CloneOrPull(context.Background(), filepath.Join(t.TempDir(), "missing"), dir, "")
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "clone", fe.Op)
	assert.NoDirExists(t, dir)
}
