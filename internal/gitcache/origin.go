package gitcache

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Origin describes where a local directory came from.
type Origin struct {
	URL      string
	Revision string
}

// DetectOrigin reports the origin remote and HEAD commit of path when path
// itself is the root of a git working tree with an "origin" remote.
// Symlinks are resolved first. Any failure yields ok == false.
func DetectOrigin(path string) (origin Origin, ok bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	if _, err := os.Stat(filepath.Join(resolved, ".git")); err != nil {
		return Origin{}, false
	}

	r, err := git.PlainOpen(resolved)
	if err != nil {
		return Origin{}, false
	}

	remote, err := r.Remote("origin")
	if err != nil {
		return Origin{}, false
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return Origin{}, false
	}
	origin.URL = urls[0]

	if head, err := r.Head(); err == nil {
		if commit, err := r.CommitObject(head.Hash()); err == nil {
			origin.Revision = commit.Hash.String()
		}
	}
	return origin, true
}
