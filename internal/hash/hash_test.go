package hash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	got := SHA256("hello world")
	assert.Len(t, got, 64)
	assert.Equal(t, got, SHA256("hello world"))
	assert.NotEqual(t, got, SHA256("hello world!"))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc", Short("abc"))
	assert.Equal(t, "0123456789ab", Short("0123456789abcdef"))
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func TestDir_EqualTreesHashEqual(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	files := map[string]string{
		"SKILL.md":       "---\nname: x\n---\n",
		"scripts/run.sh": "echo hi",
		".hidden":        "h",
	}
	writeTree(t, a, files)
	writeTree(t, b, files)

	ha, err := Dir(a)
	require.NoError(t, err)
	hb, err := Dir(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestDir_ContentChangeChangesHash(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeTree(t, a, map[string]string{"a.txt": "x"})
	writeTree(t, b, map[string]string{"a.txt": "y"})

	ha, err := Dir(a)
	require.NoError(t, err)
	hb, err := Dir(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestDir_RenameChangesHash(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeTree(t, a, map[string]string{"a.txt": "x"})
	writeTree(t, b, map[string]string{"b.txt": "x"})

	ha, err := Dir(a)
	require.NoError(t, err)
	hb, err := Dir(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestDir_IgnoresGitDir(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeTree(t, a, map[string]string{"a.txt": "x"})
	writeTree(t, b, map[string]string{"a.txt": "x", ".git/HEAD": "ref: refs/heads/main"})

	ha, err := Dir(a)
	require.NoError(t, err)
	hb, err := Dir(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestDir_NotADirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))

	_, err := Dir(f)
	assert.Error(t, err)

	_, err = Dir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
