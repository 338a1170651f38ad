package installer

import (
	"os"
	"path/filepath"
	"strings"
)

// Platform identifies a tool that reads skills from a directory under the
// user's home.
type Platform string

const (
	PlatformClaude      Platform = "claude"
	PlatformCursor      Platform = "cursor"
	PlatformCopilot     Platform = "copilot"
	PlatformCodex       Platform = "codex"
	PlatformOpenCode    Platform = "opencode"
	PlatformWindsurf    Platform = "windsurf"
	PlatformAmp         Platform = "amp"
	PlatformAntigravity Platform = "antigravity"
	PlatformCline       Platform = "cline"
	PlatformContinue    Platform = "continue"
	PlatformCrush       Platform = "crush"
	PlatformDroid       Platform = "droid"
	PlatformGeminiCLI   Platform = "gemini-cli"
	PlatformGoose       Platform = "goose"
	PlatformKiroCLI     Platform = "kiro-cli"
	PlatformQwenCode    Platform = "qwen-code"
	PlatformRooCode     Platform = "roo"
	PlatformTrae        Platform = "trae"
)

// PlatformInfo describes where a tool keeps its skills. Directories are
// relative to the user's home.
type PlatformInfo struct {
	ID   Platform
	Name string // Display name (e.g., "Claude Code")

	// DetectDir marks the tool as installed when it exists.
	DetectDir string
	// SkillsDir holds one subdirectory per skill.
	SkillsDir string
	// Command is the CLI name looked up in PATH for status reports.
	Command string
	// SupportsLinks is false for tools that do not follow symlinked skill
	// directories; their targets are always full copies.
	SupportsLinks bool
}

// platformRegistry maps platforms to their metadata.
var platformRegistry = map[Platform]PlatformInfo{
	PlatformClaude:      {Name: "Claude Code", DetectDir: ".claude", SkillsDir: ".claude/skills", Command: "claude", SupportsLinks: true},
	PlatformCursor:      {Name: "Cursor", DetectDir: ".cursor", SkillsDir: ".cursor/skills", Command: "cursor"},
	PlatformCopilot:     {Name: "GitHub Copilot", DetectDir: ".copilot", SkillsDir: ".copilot/skills", SupportsLinks: true},
	PlatformCodex:       {Name: "OpenAI Codex", DetectDir: ".codex", SkillsDir: ".codex/skills", Command: "codex", SupportsLinks: true},
	PlatformOpenCode:    {Name: "OpenCode", DetectDir: ".config/opencode", SkillsDir: ".config/opencode/skills", Command: "opencode", SupportsLinks: true},
	PlatformWindsurf:    {Name: "Windsurf", DetectDir: ".codeium/windsurf", SkillsDir: ".codeium/windsurf/skills", Command: "windsurf", SupportsLinks: true},
	PlatformAmp:         {Name: "Amp", DetectDir: ".config/agents", SkillsDir: ".config/agents/skills", Command: "amp", SupportsLinks: true},
	PlatformAntigravity: {Name: "Antigravity", DetectDir: ".gemini/antigravity", SkillsDir: ".gemini/antigravity/global_skills", Command: "antigravity", SupportsLinks: true},
	PlatformCline:       {Name: "Cline", DetectDir: ".cline", SkillsDir: ".cline/skills", Command: "cline", SupportsLinks: true},
	PlatformContinue:    {Name: "Continue", DetectDir: ".continue", SkillsDir: ".continue/skills", Command: "continue", SupportsLinks: true},
	PlatformCrush:       {Name: "Crush", DetectDir: ".config/crush", SkillsDir: ".config/crush/skills", Command: "crush", SupportsLinks: true},
	PlatformDroid:       {Name: "Droid", DetectDir: ".factory", SkillsDir: ".factory/skills", Command: "droid", SupportsLinks: true},
	PlatformGeminiCLI:   {Name: "Gemini CLI", DetectDir: ".gemini", SkillsDir: ".gemini/skills", Command: "gemini", SupportsLinks: true},
	PlatformGoose:       {Name: "Goose", DetectDir: ".config/goose", SkillsDir: ".config/goose/skills", Command: "goose", SupportsLinks: true},
	PlatformKiroCLI:     {Name: "Kiro CLI", DetectDir: ".kiro", SkillsDir: ".kiro/skills", Command: "kiro-cli", SupportsLinks: true},
	PlatformQwenCode:    {Name: "Qwen Code", DetectDir: ".qwen", SkillsDir: ".qwen/skills", Command: "qwen-code", SupportsLinks: true},
	PlatformRooCode:     {Name: "Roo Code", DetectDir: ".roo", SkillsDir: ".roo/skills", Command: "roo", SupportsLinks: true},
	PlatformTrae:        {Name: "Trae", DetectDir: ".trae", SkillsDir: ".trae/skills", Command: "trae", SupportsLinks: true},
}

// AllPlatforms returns every supported platform in display order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformClaude,
		PlatformCursor,
		PlatformCopilot,
		PlatformCodex,
		PlatformOpenCode,
		PlatformWindsurf,
		PlatformAmp,
		PlatformAntigravity,
		PlatformCline,
		PlatformContinue,
		PlatformCrush,
		PlatformDroid,
		PlatformGeminiCLI,
		PlatformGoose,
		PlatformKiroCLI,
		PlatformQwenCode,
		PlatformRooCode,
		PlatformTrae,
	}
}

// AllPlatformInfos returns the info of every platform in display order.
func AllPlatformInfos() []PlatformInfo {
	out := make([]PlatformInfo, 0, len(platformRegistry))
	for _, p := range AllPlatforms() {
		out = append(out, p.Info())
	}
	return out
}

// IsValid checks if the platform is a supported platform.
func (p Platform) IsValid() bool {
	_, exists := platformRegistry[p]
	return exists
}

// Info returns the platform info, or a zero PlatformInfo for unknown
// platforms.
func (p Platform) Info() PlatformInfo {
	info, ok := platformRegistry[p]
	if !ok {
		return PlatformInfo{}
	}
	info.ID = p
	return info
}

// PlatformFromString converts a string to a Platform, case-insensitively.
// Returns "" if the string names no supported platform.
func PlatformFromString(s string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p.IsValid() {
		return p
	}
	return ""
}

// FindPlatform looks a tool key up in infos.
func FindPlatform(infos []PlatformInfo, key string) (PlatformInfo, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, info := range infos {
		if string(info.ID) == key {
			return info, true
		}
	}
	return PlatformInfo{}, false
}

// IsInstalled reports whether the tool's marker directory exists under home.
func (pi PlatformInfo) IsInstalled(home string) bool {
	if pi.DetectDir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(home, filepath.FromSlash(pi.DetectDir)))
	return err == nil && info.IsDir()
}

// SkillsPath returns the tool's skills directory under home.
func (pi PlatformInfo) SkillsPath(home string) string {
	return filepath.Join(home, filepath.FromSlash(pi.SkillsDir))
}

// SkillPath returns where the skill named name lives for this tool.
func (pi PlatformInfo) SkillPath(home, name string) string {
	return filepath.Join(pi.SkillsPath(home), name)
}
