package discovery

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/starjokerZYJ/skills-hub/internal/hash"
	"github.com/starjokerZYJ/skills-hub/internal/installer"
	"github.com/starjokerZYJ/skills-hub/internal/log"
)

// Variant is one tool's copy of a skill.
type Variant struct {
	Tool        string
	Name        string
	Path        string
	Fingerprint string // empty when hashing failed
	IsLink      bool
	LinkTarget  string
}

// Group collects the variants of one skill name across tools.
type Group struct {
	Name        string
	Variants    []Variant
	HasConflict bool
}

// Plan is the outcome of a discovery scan.
type Plan struct {
	TotalToolsScanned int
	TotalSkillsFound  int
	Groups            []Group
}

// Conflicts returns the groups whose variants disagree in content.
func (p *Plan) Conflicts() []Group {
	var out []Group
	for _, g := range p.Groups {
		if g.HasConflict {
			out = append(out, g)
		}
	}
	return out
}

// Exclusions lists what the hub already manages.
type Exclusions struct {
	// ManagedTargets holds (tool, path) pairs already registered as targets.
	ManagedTargets [][2]string
	// ManagedNames holds the names of skills already in the registry.
	ManagedNames []string
}

// Registry is the part of the store discovery reads exclusions from.
type Registry interface {
	ListAllSkillTargetPaths() ([][2]string, error)
	ListSkillNames() ([]string, error)
}

// LoadExclusions reads exclusions from the registry.
func LoadExclusions(reg Registry) (Exclusions, error) {
	targets, err := reg.ListAllSkillTargetPaths()
	if err != nil {
		return Exclusions{}, fmt.Errorf("list targets: %w", err)
	}
	names, err := reg.ListSkillNames()
	if err != nil {
		return Exclusions{}, fmt.Errorf("list skills: %w", err)
	}
	return Exclusions{ManagedTargets: targets, ManagedNames: names}, nil
}

// BuildPlan scans every installed platform under home and groups the
// unmanaged skills it finds by name. Groups are sorted by name and
// variants by tool.
func (s *ScannerService) BuildPlan(ctx context.Context, home string, platforms []installer.PlatformInfo, ex Exclusions) (*Plan, error) {
	detected, scanned, err := s.ScanPlatforms(home, platforms)
	if err != nil {
		return nil, err
	}

	managedTargets := make(map[string]bool, len(ex.ManagedTargets))
	for _, t := range ex.ManagedTargets {
		managedTargets[targetKey(t[0], t[1])] = true
	}
	managedNames := make(map[string]bool, len(ex.ManagedNames))
	for _, n := range ex.ManagedNames {
		managedNames[n] = true
	}

	grouped := make(map[string][]Variant)
	for _, skill := range detected {
		if s.IsHubManaged(skill) || managedTargets[targetKey(skill.Tool, skill.Path)] || managedNames[skill.Name] {
			continue
		}

		fingerprint, err := hash.Dir(skill.Path)
		if err != nil {
			log.GetLogger(ctx).WithError(err).WithFields(logrus.Fields{
				"tool": skill.Tool,
				"path": skill.Path,
			}).Debug("fingerprint failed")
			fingerprint = ""
		}

		grouped[skill.Name] = append(grouped[skill.Name], Variant{
			Tool:        skill.Tool,
			Name:        skill.Name,
			Path:        skill.Path,
			Fingerprint: fingerprint,
			IsLink:      skill.IsLink,
			LinkTarget:  skill.LinkTarget,
		})
	}

	plan := &Plan{TotalToolsScanned: scanned}
	for name, variants := range grouped {
		sort.Slice(variants, func(a, b int) bool { return variants[a].Tool < variants[b].Tool })
		plan.Groups = append(plan.Groups, Group{
			Name:        name,
			Variants:    variants,
			HasConflict: distinctFingerprints(variants) > 1,
		})
		plan.TotalSkillsFound += len(variants)
	}
	sort.Slice(plan.Groups, func(a, b int) bool { return plan.Groups[a].Name < plan.Groups[b].Name })

	return plan, nil
}

// distinctFingerprints counts the distinct non-empty fingerprints, with a
// floor of one.
func distinctFingerprints(variants []Variant) int {
	seen := make(map[string]bool)
	for _, v := range variants {
		if v.Fingerprint != "" {
			seen[v.Fingerprint] = true
		}
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}
