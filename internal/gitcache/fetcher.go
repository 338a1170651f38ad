package gitcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitHttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// DefaultFetchTimeout bounds a single clone or pull.
const DefaultFetchTimeout = 2 * time.Minute

// Fetcher materializes a repository at dir and returns the commit it
// checked out. An empty branch means the remote's default branch.
type Fetcher interface {
	CloneOrPull(ctx context.Context, cloneURL, dir, branch string) (string, error)
}

// FetchError represents a failed fetch step.
type FetchError struct {
	URL string
	Op  string // "clone", "open", "fetch", "resolve-ref", "worktree", "reset", "head"
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.URL, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// GitFetcher clones and updates working-tree repositories with go-git.
type GitFetcher struct {
	token string
}

// NewGitFetcher returns a fetcher that authenticates to GitHub with token
// when it is non-empty.
func NewGitFetcher(token string) *GitFetcher {
	return &GitFetcher{token: token}
}

// CloneOrPull clones cloneURL into dir, or fetches and hard-resets an
// existing clone, and returns the checked-out commit.
func (f *GitFetcher) CloneOrPull(ctx context.Context, cloneURL, dir, branch string) (string, error) {
	var cancel context.CancelFunc
	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > DefaultFetchTimeout {
		ctx, cancel = context.WithTimeout(ctx, DefaultFetchTimeout)
		defer cancel()
	}

	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return f.pull(ctx, cloneURL, dir, branch)
	}
	return f.clone(ctx, cloneURL, dir, branch)
}

func (f *GitFetcher) auth(cloneURL string) *gitHttp.BasicAuth {
	if f.token == "" || !strings.HasPrefix(cloneURL, "https://github.com/") {
		return nil
	}
	return &gitHttp.BasicAuth{Username: "oauth2", Password: f.token}
}

// isRemote reports whether cloneURL goes over the network. Local clones
// are never shallow.
func isRemote(cloneURL string) bool {
	if strings.HasPrefix(cloneURL, "file://") {
		return false
	}
	return strings.Contains(cloneURL, "://") || strings.Contains(cloneURL, "@")
}

func (f *GitFetcher) cloneOptions(cloneURL string, ref plumbing.ReferenceName) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:           cloneURL,
		SingleBranch:  true,
		Tags:          git.NoTags,
		ReferenceName: ref,
	}
	if isRemote(cloneURL) {
		opts.Depth = 1
	}
	if a := f.auth(cloneURL); a != nil {
		opts.Auth = a
	}
	return opts
}

func (f *GitFetcher) clone(ctx context.Context, cloneURL, dir, branch string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return "", &FetchError{URL: cloneURL, Op: "clone", Err: err}
	}

	var ref plumbing.ReferenceName
	if branch != "" {
		ref = plumbing.NewBranchReferenceName(branch)
	}

	r, err := git.PlainCloneContext(ctx, dir, false, f.cloneOptions(cloneURL, ref))
	if err != nil && branch != "" {
		// tree/<name> URLs may name a tag rather than a branch.
		_ = os.RemoveAll(dir)
		var tagErr error
		r, tagErr = git.PlainCloneContext(ctx, dir, false, f.cloneOptions(cloneURL, plumbing.NewTagReferenceName(branch)))
		if tagErr == nil {
			err = nil
		}
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", &FetchError{URL: cloneURL, Op: "clone", Err: err}
	}

	head, err := r.Head()
	if err != nil {
		return "", &FetchError{URL: cloneURL, Op: "head", Err: err}
	}
	return head.Hash().String(), nil
}

func (f *GitFetcher) pull(ctx context.Context, cloneURL, dir, branch string) (string, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return "", &FetchError{URL: cloneURL, Op: "open", Err: err}
	}

	fetchOpts := &git.FetchOptions{
		RemoteName: "origin",
		Force:      true,
		Tags:       git.NoTags,
	}
	if isRemote(cloneURL) {
		fetchOpts.Depth = 1
	}
	if a := f.auth(cloneURL); a != nil {
		fetchOpts.Auth = a
	}

	err = r.FetchContext(ctx, fetchOpts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", &FetchError{URL: cloneURL, Op: "fetch", Err: err}
	}

	target, err := resolveRemoteRef(r, branch)
	if err != nil {
		return "", &FetchError{URL: cloneURL, Op: "resolve-ref", Err: err}
	}

	w, err := r.Worktree()
	if err != nil {
		return "", &FetchError{URL: cloneURL, Op: "worktree", Err: err}
	}
	if err := w.Reset(&git.ResetOptions{Commit: target, Mode: git.HardReset}); err != nil {
		return "", &FetchError{URL: cloneURL, Op: "reset", Err: err}
	}

	now := time.Now()
	_ = os.Chtimes(dir, now, now)

	return target.String(), nil
}

// resolveRemoteRef picks the commit the working tree should move to after
// a fetch.
func resolveRemoteRef(r *git.Repository, branch string) (plumbing.Hash, error) {
	var candidates []plumbing.ReferenceName
	if branch != "" {
		candidates = append(candidates,
			plumbing.NewRemoteReferenceName("origin", branch),
			plumbing.NewTagReferenceName(branch),
		)
	} else {
		if head, err := r.Head(); err == nil && head.Name().IsBranch() {
			candidates = append(candidates, plumbing.NewRemoteReferenceName("origin", head.Name().Short()))
		}
		candidates = append(candidates,
			plumbing.NewRemoteReferenceName("origin", "HEAD"),
			plumbing.NewRemoteReferenceName("origin", "main"),
			plumbing.NewRemoteReferenceName("origin", "master"),
		)
	}

	var lastErr error
	for _, name := range candidates {
		ref, err := r.Reference(name, true)
		if err == nil {
			return ref.Hash(), nil
		}
		lastErr = err
	}
	return plumbing.ZeroHash, lastErr
}
