package gitcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starjokerZYJ/skills-hub/internal/log"
)

// ClearAll removes every cached clone and returns how many were removed.
func (c *Cache) ClearAll() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := removeEntry(filepath.Join(c.root, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}

	// Stray metadata and temp files.
	for _, e := range entries {
		if !e.IsDir() {
			_ = os.Remove(filepath.Join(c.root, e.Name()))
		}
	}
	return removed, nil
}

// CleanupOlderThan removes clones whose last fetch (or, without metadata,
// directory modification time) is older than maxAge.
func (c *Cache) CleanupOlderThan(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	cutoff := c.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(c.root, e.Name())

		last, ok := c.lastFetched(dir)
		if !ok {
			info, err := e.Info()
			if err != nil {
				continue
			}
			last = info.ModTime()
		}
		if !last.Before(cutoff) {
			continue
		}

		if err := removeEntry(dir); err != nil {
			log.WithError(err).WithField("dir", dir).Warn("remove stale cache entry")
			continue
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) lastFetched(dir string) (time.Time, bool) {
	m, err := readMeta(dir)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(m.LastFetchedMs), true
}
