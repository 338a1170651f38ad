// Package detect reports which supported tools are present for a user.
package detect

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/starjokerZYJ/skills-hub/internal/installer"
)

// Status holds information about one tool.
type Status struct {
	Platform    installer.Platform
	Name        string
	Installed   bool   // marker directory exists under home
	SkillsDir   string // absolute skills directory
	SkillsCount int    // entries in SkillsDir, hidden ones excluded
	CommandPath string // path to the tool's command if found in PATH
}

// DetectAll reports every registered tool, in registry order.
func DetectAll(home string) []Status {
	return DetectPlatforms(home, installer.AllPlatformInfos())
}

// DetectPlatforms reports the given tools.
func DetectPlatforms(home string, infos []installer.PlatformInfo) []Status {
	results := make([]Status, 0, len(infos))
	for _, info := range infos {
		results = append(results, detectOne(home, info))
	}
	return results
}

// Installed returns only the installed tools of statuses.
func Installed(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if s.Installed {
			out = append(out, s)
		}
	}
	return out
}

func detectOne(home string, info installer.PlatformInfo) Status {
	result := Status{
		Platform:  info.ID,
		Name:      info.Name,
		Installed: info.IsInstalled(home),
		SkillsDir: info.SkillsPath(home),
	}

	if info.Command != "" {
		if path, err := exec.LookPath(info.Command); err == nil {
			result.CommandPath = path
		}
	}

	if result.Installed {
		result.SkillsCount = countSkills(result.SkillsDir)
	}
	return result
}

func countSkills(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			n++
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, e.Name())); err == nil && info.IsDir() {
			n++
		}
	}
	return n
}
