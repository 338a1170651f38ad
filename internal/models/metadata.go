package models

// SkillMetadata is the optional package metadata a bundle may ship in
// skill.yaml, skill.yml or skill.json.
type SkillMetadata struct {
	Name         string   `yaml:"name" json:"name"`
	Version      string   `yaml:"version" json:"version"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	Author       string   `yaml:"author,omitempty" json:"author,omitempty"`
	Tags         []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}
