// Package gitcache keeps local clones of remote skill repositories so that
// repeated installs and updates within a freshness window do not hit the
// network.
package gitcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/starjokerZYJ/skills-hub/internal/hash"
	"github.com/starjokerZYJ/skills-hub/internal/log"
)

// RootDirName is the directory under the cache dir holding all clones.
const RootDirName = "skills-hub-git-cache"

// defaultBranchKey stands in for "no branch" in cache keys. NUL cannot
// appear in a git ref name, so it never collides with a real branch.
const defaultBranchKey = "\x00default"

// Cache hands out fresh-enough clones keyed by (clone URL, branch).
// A single lock serializes every acquire, so concurrent callers never
// race on the same clone directory.
type Cache struct {
	root    string
	fetcher Fetcher
	ttl     func() int64
	now     func() time.Time

	mu sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTLSeconds sets the freshness window source. It is consulted on
// every acquire so settings changes apply immediately.
func WithTTLSeconds(ttl func() int64) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns a cache storing clones under <cacheDir>/skills-hub-git-cache.
func New(cacheDir string, fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		root:    filepath.Join(cacheDir, RootDirName),
		fetcher: fetcher,
		ttl:     func() int64 { return 60 },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the directory holding all cached clones.
func (c *Cache) Root() string {
	return c.root
}

// Key returns the cache key for a clone URL and optional branch.
func Key(cloneURL, branch string) string {
	b := defaultBranchKey
	if branch != "" {
		b = "branch:" + branch
	}
	return hash.SHA256(cloneURL + "\n" + b)
}

// Dir returns the clone directory for a clone URL and branch.
func (c *Cache) Dir(cloneURL, branch string) string {
	return filepath.Join(c.root, Key(cloneURL, branch))
}

// Acquire returns a local clone of cloneURL at branch and its HEAD commit.
// A clone fetched less than the TTL ago is reused as is. Otherwise it is
// refreshed; if that fails the clone is wiped and fetched once more from
// scratch. Callers must treat the returned directory as read-only and copy
// out what they need before the next Acquire.
func (c *Cache) Acquire(ctx context.Context, cloneURL, branch string) (dir, rev string, err error) {
	started := c.now()
	dir = c.Dir(cloneURL, branch)
	entry := log.G(ctx).WithFields(map[string]interface{}{
		"url":    cloneURL,
		"branch": branch,
		"dir":    dir,
	})

	if err := os.MkdirAll(c.root, 0755); err != nil {
		return "", "", fmt.Errorf("create cache dir: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if head, ok := c.fresh(dir); ok {
		entry.WithField("elapsed", c.now().Sub(started).Seconds()).Info("git cache hit (fresh)")
		return dir, head, nil
	}
	entry.Info("git cache miss or stale, fetching")

	err = retry.Do(
		func() error {
			r, err := c.fetcher.CloneOrPull(ctx, cloneURL, dir, branch)
			if err != nil {
				return err
			}
			rev = r
			return nil
		},
		retry.Attempts(2),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			entry.WithError(err).WithField("attempt", n+1).Warn("git fetch failed, resetting cache entry")
			if rmErr := removeEntry(dir); rmErr != nil {
				entry.WithError(rmErr).Warn("remove cache entry")
			}
		}),
	)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", cloneURL, err)
	}

	head := rev
	if err := writeMeta(dir, entryMeta{LastFetchedMs: c.now().UnixMilli(), Head: &head}); err != nil {
		entry.WithError(err).Warn("write cache meta")
	}

	entry.WithField("elapsed", c.now().Sub(started).Seconds()).Info("git cache ready")
	return dir, rev, nil
}

// fresh reports whether the clone at dir may be reused without fetching.
func (c *Cache) fresh(dir string) (string, bool) {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return "", false
	}
	m, err := readMeta(dir)
	if err != nil || m.Head == nil {
		return "", false
	}
	ttlMs := c.ttl() * 1000
	if ttlMs <= 0 {
		return "", false
	}
	if c.now().UnixMilli()-m.LastFetchedMs >= ttlMs {
		return "", false
	}
	return *m.Head, true
}
