// Package discovery finds skills that tools already hold but the hub does
// not manage yet, and plans their onboarding.
package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/starjokerZYJ/skills-hub/internal/installer"
)

// DetectedSkill is one skill directory found in a tool's skills directory.
type DetectedSkill struct {
	Tool       string
	Name       string
	Path       string
	IsLink     bool
	LinkTarget string // absolute; empty unless IsLink
}

// ScannerService discovers skills in tool directories, ignoring anything
// that lives in (or points into) the central repository.
type ScannerService struct {
	centralRoot string
}

// NewScannerService creates a scanner that treats centralRoot as the hub's
// own repository. An empty root disables that exclusion.
func NewScannerService(centralRoot string) *ScannerService {
	return &ScannerService{centralRoot: canonical(centralRoot)}
}

// ScanDirectory lists the skill directories in dir for tool. Every
// non-hidden directory, or symlink to a directory, is a skill named after
// its directory. A missing dir yields no skills.
func (s *ScannerService) ScanDirectory(dir, tool string) ([]DetectedSkill, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var detected []DetectedSkill
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		entryPath := filepath.Join(dir, name)

		lstat, err := os.Lstat(entryPath)
		if err != nil {
			continue
		}
		skill := DetectedSkill{Tool: tool, Name: name, Path: entryPath}

		if lstat.Mode()&os.ModeSymlink != 0 {
			// Dangling links and links to files are not skills.
			target, err := os.Stat(entryPath)
			if err != nil || !target.IsDir() {
				continue
			}
			skill.IsLink = true
			skill.LinkTarget = linkTarget(entryPath)
		} else if !lstat.IsDir() {
			continue
		}

		detected = append(detected, skill)
	}

	return detected, nil
}

// ScanPlatforms scans the skills directory of every installed platform.
// It returns the detected skills and how many platforms were scanned.
func (s *ScannerService) ScanPlatforms(home string, platforms []installer.PlatformInfo) ([]DetectedSkill, int, error) {
	var (
		all     []DetectedSkill
		scanned int
	)
	for _, p := range platforms {
		if !p.IsInstalled(home) {
			continue
		}
		scanned++
		detected, err := s.ScanDirectory(p.SkillsPath(home), string(p.ID))
		if err != nil {
			return nil, scanned, err
		}
		all = append(all, detected...)
	}
	return all, scanned, nil
}

// IsHubManaged reports whether skill lives in, or points into, the
// central repository.
func (s *ScannerService) IsHubManaged(skill DetectedSkill) bool {
	if s.centralRoot == "" {
		return false
	}
	if isUnder(skill.Path, s.centralRoot) {
		return true
	}
	if skill.LinkTarget != "" && isUnder(skill.LinkTarget, s.centralRoot) {
		return true
	}
	if resolved, err := filepath.EvalSymlinks(skill.Path); err == nil && isUnder(resolved, s.centralRoot) {
		return true
	}
	return false
}

// linkTarget returns the absolute target of the symlink at path.
func linkTarget(path string) string {
	target, err := os.Readlink(path)
	if err != nil {
		return ""
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target)
}

// canonical cleans p and resolves symlinks when p exists.
func canonical(p string) string {
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return p
}

func isUnder(path, base string) bool {
	rel, err := filepath.Rel(base, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// caseInsensitiveFS is true where the default filesystem ignores case.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// targetKey identifies a (tool, path) pair for exclusion matching.
func targetKey(tool, path string) string {
	p := filepath.Clean(path)
	if caseInsensitiveFS {
		p = strings.ToLower(p)
	}
	return strings.ToLower(tool) + "\n" + p
}
