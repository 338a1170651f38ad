package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// skipDirs are never part of a bundle's content.
var skipDirs = map[string]bool{
	".git": true,
}

// Dir computes a deterministic fingerprint of the tree rooted at root.
// Two trees hash equal iff they have the same relative paths, entry kinds,
// file bytes and symlink targets. Timestamps and permissions are ignored.
// A root that is itself a symlink is resolved first.
func Dir(root string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}

	h := sha256.New()
	// WalkDir visits entries in lexical order, which keeps the digest stable.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			writeRecord(h, "L", rel)
			writeRecord(h, "", filepath.ToSlash(target))
		case d.IsDir():
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			writeRecord(h, "D", rel)
		default:
			writeRecord(h, "F", rel)
			if err := hashFile(h, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", root, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeRecord(w io.Writer, kind, value string) {
	_, _ = fmt.Fprintf(w, "%s:%d:%s\x00", kind, len(value), value)
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(w, f)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\x00%d\x00", n)
	return nil
}
