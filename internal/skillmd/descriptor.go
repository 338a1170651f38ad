// Package skillmd validates SKILL.md descriptors and loads optional bundle
// metadata.
package skillmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the descriptor file every skill bundle carries at its root.
const FileName = "SKILL.md"

// Validation reasons.
const (
	ReasonInvalidFrontmatter = "invalid_frontmatter"
	ReasonMissingName        = "missing_name"
	ReasonReadFailed         = "read_failed"
	ReasonMissingSkillMD     = "missing_skill_md"
)

// ValidationError explains why a descriptor was rejected.
type ValidationError struct {
	Reason string
	Path   string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", FileName, e.Reason)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Descriptor holds the identity fields of a SKILL.md frontmatter block.
type Descriptor struct {
	Name        string
	Description string
}

// HasDescriptor reports whether dir contains a SKILL.md file.
func HasDescriptor(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

// ParseDir reads and validates <dir>/SKILL.md.
func ParseDir(dir string) (*Descriptor, error) {
	return ParseFile(filepath.Join(dir, FileName))
}

// ParseFile reads and validates a SKILL.md file.
func ParseFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		reason := ReasonReadFailed
		if os.IsNotExist(err) {
			reason = ReasonMissingSkillMD
		}
		return nil, &ValidationError{Reason: reason, Path: path, Err: err}
	}
	d, err := Parse(string(data))
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Path = path
		}
		return nil, err
	}
	return d, nil
}

// Parse validates descriptor content. The first line must be "---", a
// closing "---" line must follow, and the block must declare a non-empty
// name.
func Parse(content string) (*Descriptor, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, &ValidationError{Reason: ReasonInvalidFrontmatter}
	}

	var d Descriptor
	closed := false
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			closed = true
			break
		}
		if v, ok := strings.CutPrefix(trimmed, "name:"); ok {
			d.Name = cleanValue(v)
			continue
		}
		if v, ok := strings.CutPrefix(trimmed, "description:"); ok {
			d.Description = cleanValue(v)
		}
	}

	if !closed {
		return nil, &ValidationError{Reason: ReasonInvalidFrontmatter}
	}
	if d.Name == "" {
		return nil, &ValidationError{Reason: ReasonMissingName}
	}
	return &d, nil
}

func cleanValue(v string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(v), `"`))
}

// Reason returns the validation reason carried by err, or "" when err is
// not a *ValidationError.
func Reason(err error) string {
	if ve, ok := err.(*ValidationError); ok {
		return ve.Reason
	}
	return ""
}
