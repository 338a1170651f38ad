package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// WriteFiles writes files (slash-separated relative path -> content) under root.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

// SkillMD returns a valid SKILL.md body.
func SkillMD(name, description string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\n---\n\n# " + name + "\n"
}

// WriteSkill creates <dir>/<name>/SKILL.md and returns the skill directory.
func WriteSkill(t *testing.T, dir, name, description string) string {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	WriteFiles(t, skillDir, map[string]string{"SKILL.md": SkillMD(name, description)})
	return skillDir
}

// InitGitRepo initializes a repository at dir, commits files and returns
// the commit hash.
func InitGitRepo(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return CommitFiles(t, dir, files)
}

// CommitFiles writes files into the repository at dir and commits
// everything in the working tree.
func CommitFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	WriteFiles(t, dir, files)

	r, err := git.PlainOpen(dir)
	require.NoError(t, err)
	w, err := r.Worktree()
	require.NoError(t, err)
	require.NoError(t, w.AddWithOptions(&git.AddOptions{All: true}))

	hash, err := w.Commit("test commit", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

// AddOrigin registers url as the "origin" remote of the repository at dir.
func AddOrigin(t *testing.T, dir, url string) {
	t.Helper()
	r, err := git.PlainOpen(dir)
	require.NoError(t, err)
	_, err = r.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{url}})
	require.NoError(t, err)
}
