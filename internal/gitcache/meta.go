package gitcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// metaSuffix names the metadata file kept beside each clone directory.
const metaSuffix = ".skills-hub-cache.json"

// entryMeta is persisted after every successful fetch.
type entryMeta struct {
	LastFetchedMs int64   `json:"last_fetched_ms"`
	Head          *string `json:"head"`
}

func metaPath(dir string) string {
	return dir + metaSuffix
}

func readMeta(dir string) (*entryMeta, error) {
	data, err := os.ReadFile(metaPath(dir))
	if err != nil {
		return nil, err
	}
	var m entryMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", metaPath(dir), err)
	}
	return &m, nil
}

// writeMeta writes the metadata atomically (temp file + rename).
func writeMeta(dir string, m entryMeta) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal cache meta: %w", err)
	}

	path := metaPath(dir)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-meta-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename cache meta: %w", err)
	}
	return nil
}

// removeEntry deletes a clone directory together with its metadata.
func removeEntry(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.Remove(metaPath(dir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
