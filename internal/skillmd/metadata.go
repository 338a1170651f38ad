package skillmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/starjokerZYJ/skills-hub/internal/log"
	"github.com/starjokerZYJ/skills-hub/internal/models"
)

// metadataFiles are tried in order; the first one present wins.
var metadataFiles = []string{"skill.yaml", "skill.yml", "skill.json"}

var frontmatterMD = goldmark.New(goldmark.WithExtensions(meta.Meta))

// LoadMetadata returns the bundle metadata of dir. It reads the first of
// skill.yaml, skill.yml and skill.json that exists; without any of them
// it falls back to the SKILL.md frontmatter. Failures are logged and
// yield nil.
func LoadMetadata(dir string) *models.SkillMetadata {
	for _, name := range metadataFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.WithError(err).WithField("path", path).Warn("read skill metadata")
				return nil
			}
			continue
		}

		md, err := decodeMetadata(name, data)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("parse skill metadata")
			return nil
		}
		return md
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil
	}
	md, err := FrontmatterMetadata(data)
	if err != nil {
		log.WithError(err).WithField("dir", dir).Debug("parse SKILL.md frontmatter")
		return nil
	}
	return md
}

func decodeMetadata(name string, data []byte) (*models.SkillMetadata, error) {
	var md models.SkillMetadata
	var err error
	if strings.HasSuffix(name, ".json") {
		err = json.Unmarshal(data, &md)
	} else {
		err = yaml.Unmarshal(data, &md)
	}
	if err != nil {
		return nil, err
	}
	if md.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if md.Version == "" {
		return nil, fmt.Errorf("missing version")
	}
	return &md, nil
}

// FrontmatterMetadata extracts metadata from SKILL.md frontmatter. Version,
// author and license may sit at the top level or under a nested
// "metadata" map. It returns nil when the frontmatter declares no name.
func FrontmatterMetadata(content []byte) (*models.SkillMetadata, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := frontmatterMD.Convert(content, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}
	fm, err := meta.TryGet(ctx)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	name := stringField(fm, "name")
	if name == "" {
		return nil, nil
	}

	md := &models.SkillMetadata{
		Name:        name,
		Description: stringField(fm, "description"),
		Version:     stringField(fm, "version"),
		Author:      stringField(fm, "author"),
		Tags:        stringList(fm["tags"]),
	}

	if nested := toStringMap(fm["metadata"]); nested != nil {
		if md.Version == "" {
			md.Version = stringField(nested, "version")
		}
		if md.Author == "" {
			md.Author = stringField(nested, "author")
		}
	}

	return md, nil
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int, int64, float64:
		return fmt.Sprint(v)
	}
	return ""
}

func stringList(raw interface{}) []string {
	var out []string
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// toStringMap normalizes the map types goldmark-meta produces.
func toStringMap(raw interface{}) map[string]interface{} {
	switch m := raw.(type) {
	case map[string]interface{}:
		return m
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			if s, ok := k.(string); ok {
				out[s] = v
			}
		}
		return out
	}
	return nil
}
