package testutil

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrFakeFetch is returned by FakeFetcher for injected failures.
var ErrFakeFetch = errors.New("fake fetch failure")

// FakeFetcher serves repositories from in-memory file maps. It implements
// gitcache.Fetcher without any git transport.
type FakeFetcher struct {
	mu sync.Mutex

	// Repos maps a clone URL, or "<url>@<branch>", to its files.
	Repos map[string]map[string]string
	// FailNext makes the next n calls fail.
	FailNext int

	calls        int
	dirExisted   []bool
	branchesSeen []string
}

// NewFakeFetcher returns an empty fake.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{Repos: make(map[string]map[string]string)}
}

// SetRepo replaces the content served for key.
func (f *FakeFetcher) SetRepo(key string, files map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Repos[key] = files
}

// Calls returns how many times CloneOrPull ran.
func (f *FakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// DirExisted reports, per call, whether the clone directory existed on entry.
func (f *FakeFetcher) DirExisted() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.dirExisted...)
}

// Branches returns the branch argument of every call.
func (f *FakeFetcher) Branches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.branchesSeen...)
}

// CloneOrPull replaces dir with the files registered for cloneURL.
func (f *FakeFetcher) CloneOrPull(_ context.Context, cloneURL, dir, branch string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	_, statErr := os.Stat(dir)
	f.dirExisted = append(f.dirExisted, statErr == nil)
	f.branchesSeen = append(f.branchesSeen, branch)

	if f.FailNext > 0 {
		f.FailNext--
		return "", ErrFakeFetch
	}

	files, ok := f.Repos[cloneURL+"@"+branch]
	if !ok || branch == "" {
		files, ok = f.Repos[cloneURL]
	}
	if !ok {
		return "", errors.New("repository not found: " + cloneURL)
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		return "", err
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			return "", err
		}
	}
	return Revision(files), nil
}

// Revision derives a stable fake commit id from file content.
func Revision(files map[string]string) string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha1.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(files[k]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
