package syncer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Exists checks if a file, directory or symlink exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsSymlink checks if path is a symlink.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// LinkTarget returns the absolute target of the symlink at path.
func LinkTarget(path string) (string, error) {
	if !IsSymlink(path) {
		return "", fmt.Errorf("not a symlink: %s", path)
	}
	target, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("read symlink: %w", err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// RemovePath removes whatever sits at path: a symlink is unlinked without
// touching what it points at, a directory is removed recursively. A missing
// path is not an error.
func RemovePath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
