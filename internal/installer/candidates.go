package installer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"github.com/starjokerZYJ/skills-hub/internal/log"
	"github.com/starjokerZYJ/skills-hub/internal/skillmd"
	"github.com/starjokerZYJ/skills-hub/internal/source"
)

// candidateDirs matches the directories a multi-skill repository keeps its
// skills in.
const candidateDirs = "skills/{*,.curated/*,.experimental/*,.system/*}"

// groupDirs are matched by candidateDirs but hold skills rather than being
// one.
var groupDirs = map[string]bool{
	"skills/.curated":      true,
	"skills/.experimental": true,
	"skills/.system":       true,
}

// Candidate is an installable skill found inside a repository or local
// directory. Subpath is slash-separated and "." for the root.
type Candidate struct {
	Name        string
	Description string
	Subpath     string

	// Valid is false when the directory has no usable descriptor; Reason
	// then carries the descriptor failure reason.
	Valid  bool
	Reason string
}

// ListGitSkills lists the skills a repository reference offers. A
// reference with a subpath yields at most that one skill. Every directory
// holding a SKILL.md is listed; one whose descriptor fails validation is
// named after its directory and carries the failure reason.
func (i *Installer) ListGitSkills(ctx context.Context, repoRef string) ([]Candidate, error) {
	ref := source.Parse(repoRef)
	dir, _, err := i.repos.Acquire(ctx, ref.CloneURL, ref.Branch)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	if sub := trimDescriptor(ref.Subpath); sub != "" {
		full := filepath.Join(dir, filepath.FromSlash(sub))
		if info, err := os.Stat(full); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrSubpathNotFound, sub)
		}
		if skillmd.HasDescriptor(full) {
			candidates = []Candidate{inspect(full, sub)}
		}
	} else {
		candidates, err = scanCandidates(dir, true)
		if err != nil {
			return nil, err
		}
	}

	for _, c := range candidates {
		if !c.Valid {
			log.GetLogger(ctx).WithFields(logrus.Fields{
				"subpath": c.Subpath,
				"reason":  c.Reason,
			}).Debug("skill candidate has an invalid descriptor")
		}
	}
	return candidates, nil
}

// ListLocalSkills lists candidate skills under a local directory,
// including directories whose descriptor is missing or invalid.
func (i *Installer) ListLocalSkills(basePath string) ([]Candidate, error) {
	info, err := os.Stat(basePath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, basePath)
	}
	return scanCandidates(basePath, false)
}

// scanCandidates inspects the root and every directory matching
// candidateDirs. With descriptorOnly set, directories without a SKILL.md
// are not considered.
func scanCandidates(root string, descriptorOnly bool) ([]Candidate, error) {
	var candidates []Candidate
	seen := make(map[string]bool)

	add := func(full, subpath string) {
		if seen[subpath] {
			return
		}
		seen[subpath] = true
		candidates = append(candidates, inspect(full, subpath))
	}

	if skillmd.HasDescriptor(root) {
		add(root, ".")
	}

	matches, err := doublestar.Glob(os.DirFS(root), candidateDirs)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	for _, m := range matches {
		if groupDirs[m] {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(m))
		info, err := os.Stat(full)
		if err != nil || !info.IsDir() {
			continue
		}
		if descriptorOnly && !skillmd.HasDescriptor(full) {
			continue
		}
		add(full, m)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Name != candidates[b].Name {
			return candidates[a].Name < candidates[b].Name
		}
		return candidates[a].Subpath < candidates[b].Subpath
	})
	return candidates, nil
}

// inspect builds the candidate for dir. Invalid descriptors fall back to
// the directory name.
func inspect(dir, subpath string) Candidate {
	c := Candidate{Subpath: subpath, Name: path.Base(subpath)}
	if subpath == "." {
		c.Name = filepath.Base(dir)
	}

	desc, err := skillmd.ParseDir(dir)
	if err != nil {
		if c.Reason = skillmd.Reason(err); c.Reason == "" {
			c.Reason = skillmd.ReasonReadFailed
		}
		return c
	}
	c.Valid = true
	c.Name = desc.Name
	c.Description = desc.Description
	return c
}
