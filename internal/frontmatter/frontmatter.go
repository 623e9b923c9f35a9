// Package frontmatter reads the YAML header of rule files.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissing is returned when content has no opening --- line.
	ErrMissing = errors.New("no frontmatter found (missing ---)")
	// ErrUnclosed is returned when the closing --- line is missing.
	ErrUnclosed = errors.New("unclosed frontmatter (missing closing ---)")
)

// Metadata is the rule header understood by Cursor.
type Metadata struct {
	Description string `json:"description,omitempty" yaml:"description"`
	Globs       Globs  `json:"globs,omitempty"       yaml:"globs"`
	AlwaysApply bool   `json:"alwaysApply"           yaml:"alwaysApply"`
}

// Globs accepts either a single pattern or a list of patterns.
type Globs []string

func (g *Globs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*g = nil
			return nil
		}
		*g = Globs{s}
		return nil

	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*g = list
		return nil
	}
	return fmt.Errorf("line %d: globs must be a string or a list of strings", node.Line)
}

// Split separates content into the raw YAML header and the body that follows
// the closing --- line.
func Split(content string) (string, string, error) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == "---" {
			start = i
		}
		break
	}
	if start == -1 {
		return "", content, ErrMissing
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return "", content, ErrUnclosed
	}

	return strings.Join(lines[start+1:end], "\n"), strings.Join(lines[end+1:], "\n"), nil
}

// Body returns content without its frontmatter, or content itself when it
// has none.
func Body(content string) string {
	_, body, err := Split(content)
	if err != nil {
		return content
	}
	return body
}

// Parse decodes the frontmatter of content into [Metadata].
func Parse(content []byte) (Metadata, error) {
	raw, _, err := Split(string(content))
	if err != nil {
		return Metadata{}, err
	}

	var md Metadata
	if err := yaml.Unmarshal([]byte(raw), &md); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return md, nil
}

// Raw decodes the frontmatter of content into a generic map, preserving
// every key for schema validation.
func Raw(content []byte) (map[string]any, error) {
	raw, _, err := Split(string(content))
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return out, nil
}
